// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

//go:build gofuzz

package maxfile

// Fuzz is a go-fuzz entry point exercising the chunk parser directly
// on arbitrary bytes, bypassing the CFB container since mscfb already
// has its own fuzz coverage upstream. Interesting inputs are the ones
// that drive the sign-bit and extended-length arithmetic in
// ChunkParser.ReadHeader.
func Fuzz(data []byte) int {
	if _, err := NewChunkParser().Parse(data); err != nil {
		return 0
	}
	return 1
}
