// Copyright 2025 The Driftmon Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tokenstream filters token sequences.
package tokenstream

import "iter"

// Until returns a sequence yielding the tokens of src up to, and excluding,
// the first occurrence of the stop sequence. With no stop tokens, every token
// of src is passed through.
//
// Tokens are buffered up to the stop sequence length before being yielded:
// a token that could open a stop sequence must not be released until the
// match is decided. A partial match still pending when src ends is flushed.
func Until[T comparable](src iter.Seq[T], stop ...T) iter.Seq[T] {
	if len(stop) == 0 {
		return src
	}
	return func(yield func(T) bool) {
		buf := make([]T, 0, len(stop))
		for tok := range src {
			buf = append(buf, tok)
			if len(buf) < len(stop) {
				continue
			}
			if matches(buf, stop) {
				return
			}
			if !yield(buf[0]) {
				return
			}
			copy(buf, buf[1:])
			buf = buf[:len(buf)-1]
		}
		for _, tok := range buf {
			if !yield(tok) {
				return
			}
		}
	}
}

func matches[T comparable](buf, stop []T) bool {
	for i := range stop {
		if buf[i] != stop[i] {
			return false
		}
	}
	return true
}
