// SPDX-License-Identifier: EPL-2.0

// Package sample loads instrument samples into memory.
//
// Cache picks a decoder by file extension and folds files with more than
// two channels to mono. It converts each sample to the synthesizer's output
// rate once, at load time. Voices then only need to step through the data
// at the pitch ratio:
//
//	cache := sample.NewCache(formats.NewRegistry())
//	s, err := cache.Load("samples/piano_c4.flac", 48000)
//	l, r := s.Frame(12.5, nil)
package sample
