// Copyright 2026 Maximilian Kalus [segrada@auxnet.de]
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


// Package integrity scans a catalogue graph for inconsistencies the mapping
// layer normally prevents: source references to vanished records, edges with
// missing endpoints, cycles in the tag hierarchy and audit stamps pointing
// to deleted users. The checks run concurrently on a worker pool and only
// report; nothing is repaired.
package integrity
