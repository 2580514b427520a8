// Copyright 2025 The Rivaas Authors
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

package dispatch

import "github.com/bytedance/sonic"

// defaultWriter is used by a Route that does not supply its own Writer.
// It marshals via sonic, the high-throughput JSON engine both the teacher
// module and the zeno reference router default to.
var defaultWriter Writer = WriterFunc(func(v any) ([]byte, error) {
	return sonic.Marshal(v)
})
