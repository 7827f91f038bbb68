/* Copyright 2025 Dnote Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package deck

import (
	"fmt"
)

// TransferBaseName returns the name under which a copied deck is saved
// before any collision suffix is applied
func TransferBaseName(deckName, handle string) string {
	return fmt.Sprintf("%s by %s", deckName, handle)
}

// NextAvailableName returns the first of base, "base (2)", "base (3)", ...
// that is not in existing. The result is only as fresh as the snapshot;
// two callers holding the same snapshot compute the same name.
func NextAvailableName(base string, existing map[string]bool) string {
	if !existing[base] {
		return base
	}

	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", base, n)
		if !existing[candidate] {
			return candidate
		}
	}
}
