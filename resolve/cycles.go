// Copyright 2019 eBay Inc.
// Primary authors: Simon Fell, Diego Ongaro,
//                  Raymond Kroeker, and Sathish Kandasamy.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package resolve

// countCycles returns the number of strongly connected components of the
// type graph that contain a cycle. Edges run from a type to the types its
// fields refer to, directly or as union members.
func countCycles(res *Result) int {
	edges := make(map[TypeID][]TypeID, len(res.Types))
	for _, t := range res.Types {
		for _, f := range t.Fields {
			switch f.Object.Kind {
			case TypeRef:
				edges[t.ID] = append(edges[t.ID], f.Object.Type)
			case UnionRef:
				edges[t.ID] = append(edges[t.ID], res.Unions[f.Object.Union].Members...)
			}
		}
	}
	// Tarjan's algorithm.
	index := 0
	indexes := make(map[TypeID]int)
	lowlink := make(map[TypeID]int)
	onStack := make(map[TypeID]bool)
	var stack []TypeID
	cycles := 0
	var visit func(v TypeID)
	visit = func(v TypeID) {
		indexes[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true
		selfLoop := false
		for _, w := range edges[v] {
			if w == v {
				selfLoop = true
			}
			if _, seen := indexes[w]; !seen {
				visit(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] && indexes[w] < lowlink[v] {
				lowlink[v] = indexes[w]
			}
		}
		if lowlink[v] != indexes[v] {
			return
		}
		size := 0
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false
			size++
			if w == v {
				break
			}
		}
		if size > 1 || selfLoop {
			cycles++
		}
	}
	for _, t := range res.Types {
		if _, seen := indexes[t.ID]; !seen {
			visit(t.ID)
		}
	}
	return cycles
}
