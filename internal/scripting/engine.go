// Package scripting lets Lua scripts define trigger and filter behaviors.
//
// Scripts see a global "world" table bound to the running world. Slot indices
// are passed to Lua unchanged (zero based) and are only meaningful during the
// callback that received them.
//
//	function paint_enter(self, other)
//	  if world.kind(other) == "normal" then
//	    world.set_colour(other, 1, 0, 0)
//	  end
//	end
package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/san-kum/parched/internal/ball"
)

var ErrNoHandler = errors.New("scripting: no handler defined")

// Host is the part of the world scripts may touch.
type Host interface {
	BallCount() int
	Type(i int) (ball.Kind, error)
	Colour(i int) (mgl32.Vec3, error)
	SetColour(i int, c mgl32.Vec3) error
	EraseBall(i int) error
	ApplyAcceleration(i int, a mgl32.Vec2) error
}

// Engine wraps a single gopher-lua VM. Single-goroutine access only.
type Engine struct {
	vm   *lua.LState
	host Host
	log  *zap.Logger
}

func NewEngine(host Host, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, host: host, log: log}
	e.registerWorld()
	return e
}

func (e *Engine) Close() {
	e.vm.Close()
}

func (e *Engine) LoadFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	e.log.Debug("loaded lua script", zap.String("file", path))
	return nil
}

func (e *Engine) LoadString(src string) error {
	return e.vm.DoString(src)
}

// LoadDir loads every .lua file in dir. A missing directory is not an error.
func (e *Engine) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		if err := e.LoadFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) registerWorld() {
	t := e.vm.NewTable()
	e.vm.SetFuncs(t, map[string]lua.LGFunction{
		"count":      e.luaCount,
		"kind":       e.luaKind,
		"colour":     e.luaColour,
		"set_colour": e.luaSetColour,
		"erase":      e.luaErase,
		"push":       e.luaPush,
	})
	e.vm.SetGlobal("world", t)
}

func (e *Engine) luaCount(L *lua.LState) int {
	L.Push(lua.LNumber(e.host.BallCount()))
	return 1
}

func (e *Engine) luaKind(L *lua.LState) int {
	k, err := e.host.Type(L.CheckInt(1))
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(k.String()))
	return 1
}

func (e *Engine) luaColour(L *lua.LState) int {
	c, err := e.host.Colour(L.CheckInt(1))
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(c[0]))
	L.Push(lua.LNumber(c[1]))
	L.Push(lua.LNumber(c[2]))
	return 3
}

func (e *Engine) luaSetColour(L *lua.LState) int {
	c := mgl32.Vec3{
		float32(L.CheckNumber(2)),
		float32(L.CheckNumber(3)),
		float32(L.CheckNumber(4)),
	}
	L.Push(lua.LBool(e.host.SetColour(L.CheckInt(1), c) == nil))
	return 1
}

func (e *Engine) luaErase(L *lua.LState) int {
	L.Push(lua.LBool(e.host.EraseBall(L.CheckInt(1)) == nil))
	return 1
}

func (e *Engine) luaPush(L *lua.LState) int {
	a := mgl32.Vec2{float32(L.CheckNumber(2)), float32(L.CheckNumber(3))}
	L.Push(lua.LBool(e.host.ApplyAcceleration(L.CheckInt(1), a) == nil))
	return 1
}

func (e *Engine) function(name string) *lua.LFunction {
	fn, _ := e.vm.GetGlobal(name).(*lua.LFunction)
	return fn
}

// Behavior builds a Trigger from the globals <name>_enter and <name>_exit, or a
// Selective from <name>_filter. Lua errors are logged and treated as no-ops.
func (e *Engine) Behavior(kind ball.Kind, name string) (ball.Behavior, error) {
	switch kind {
	case ball.Trigger:
		enter, exit := e.function(name+"_enter"), e.function(name+"_exit")
		if enter == nil && exit == nil {
			return ball.Behavior{}, fmt.Errorf("%w: %s_enter or %s_exit", ErrNoHandler, name, name)
		}
		return ball.TriggerBehavior(e.trigger(name+"_enter", enter), e.trigger(name+"_exit", exit)), nil

	case ball.Selective:
		filter := e.function(name + "_filter")
		if filter == nil {
			return ball.Behavior{}, fmt.Errorf("%w: %s_filter", ErrNoHandler, name)
		}
		return ball.SelectiveBehavior(e.filter(name+"_filter", filter)), nil
	}
	return ball.Behavior{}, fmt.Errorf("scripting: %s balls take no script", kind)
}

func (e *Engine) trigger(name string, fn *lua.LFunction) ball.TriggerFunc {
	if fn == nil {
		return nil
	}
	return func(self, other int) {
		err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true},
			lua.LNumber(self), lua.LNumber(other))
		if err != nil {
			e.log.Error("lua trigger error", zap.String("fn", name), zap.Error(err))
		}
	}
}

func (e *Engine) filter(name string, fn *lua.LFunction) ball.FilterFunc {
	return func(other int) bool {
		if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, lua.LNumber(other)); err != nil {
			e.log.Error("lua filter error", zap.String("fn", name), zap.Error(err))
			return false
		}
		ret := e.vm.Get(-1)
		e.vm.Pop(1)
		return lua.LVAsBool(ret)
	}
}
