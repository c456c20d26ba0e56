// Package analysis summarises recorded metric series.
//
//   - [PowerSpectrum]: magnitude spectrum of a series via go-dsp
//   - [Dominant]: strongest non-DC frequency
//   - [Describe]: mean, spread and extremes of a series
//   - [SettleFrame]: first sample after which a series stays near its final value
package analysis
