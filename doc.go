// Copyright 2025-2026 Patrick J. Scruggs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package structval adapts already-serialized JSON-like values to the
// structured forms logging backends consume, so a decoded document can be
// logged as real structure instead of a flattened string. The core types
// are [Value], the capability interface a backend walks, and [Adapter],
// which implements it over the decoded-JSON shapes (nil, bool, numbers,
// string, []any, map[string]any).
//
// A walk visits exactly one callback per value and recurses through child
// adapters for sequences and mappings. Numbers report under one policy:
// non-negative integers as uint64, negative integers as int64, everything
// else as float64. Visiting never fails and never panics; the one deliberate
// error surface is the nesting limit on [AppendJSON], which stops cyclic
// values from overflowing the stack.
//
// Quick start:
//
//	doc, err := structval.Parse([]byte(`{"id":"abc","tags":[1,2,3],"meta":null}`))
//	if err != nil {
//		// handle malformed input
//	}
//
//	zapLogger.Info("order created", structvalzap.Field("order", doc))
//	slogLogger.Info("order created", structvalslog.Attr("order", doc))
//
// Arbitrary domain values enter through [ToValue], which applies their
// encoding/json struct tags before wrapping, and [Parse] wraps raw JSON
// documents directly. The subpackages structvalzap, structvalslog,
// structvalzerolog and structvalpb bridge a [Value] into zap, slog, zerolog
// and protobuf Struct forms without the producing side knowing which
// backend is configured.
package structval
