// Copyright (C) 2026 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const multiFilePatch = `commit boilerplate that git might print
diff --git app/views.py app/views.py
index 1111111..2222222 100644
--- app/views.py
+++ app/views.py
@@ -1,2 +1,2 @@
 import os
-import sys
+import shlex
diff --git static/main.JS static/main.JS
index 3333333..4444444 100644
--- static/main.JS
+++ static/main.JS
@@ -4 +4 @@
-eval(input)
+JSON.parse(input)
diff --git Makefile Makefile
new file mode 100644
--- /dev/null
+++ Makefile
@@ -0,0 +1 @@
+all:
`

func TestSplitPatch(t *testing.T) {
	t.Run("should drop everything before the first section", func(t *testing.T) {
		sections := SplitPatch(multiFilePatch)
		require.Len(t, sections, 3)

		assert.Contains(t, sections[0], "diff --git app/views.py app/views.py")
		assert.NotContains(t, sections[0], "boilerplate")
		assert.Contains(t, sections[1], "JSON.parse")
		assert.Contains(t, sections[2], "+all:")
	})

	t.Run("should return no sections for an empty patch", func(t *testing.T) {
		assert.Empty(t, SplitPatch(""))
		assert.Empty(t, SplitPatch("nothing to see\n"))
	})

	t.Run("every section should be parseable on its own", func(t *testing.T) {
		for _, s := range SplitPatch(multiFilePatch) {
			_, err := ParseHunks(s)
			assert.NoError(t, err)
		}
	})
}

func TestTargetFilepath(t *testing.T) {
	sections := SplitPatch(multiFilePatch)
	assert.Equal(t, "app/views.py", TargetFilepath(sections[0]))
	assert.Equal(t, "static/main.JS", TargetFilepath(sections[1]))
	assert.Equal(t, "Makefile", TargetFilepath(sections[2]))

	t.Run("should fall back to the diff header", func(t *testing.T) {
		assert.Equal(t, "b.bin", TargetFilepath("diff --git a/b.bin b/b.bin\nBinary files differ\n"))
	})
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "py", Extension("app/views.py"))
	assert.Equal(t, "js", Extension("static/main.JS"))
	assert.Equal(t, "", Extension("Makefile"))
	assert.Equal(t, "gz", Extension("dist/archive.tar.gz"))
	assert.Equal(t, "", Extension(".d/config"))
}

func TestNormalizeExtensions(t *testing.T) {
	assert.Equal(t, []string{"c", "js", "py"}, NormalizeExtensions([]string{".PY", "js", " c", "py", ""}))
}

func TestClassifier(t *testing.T) {
	t.Run("should flag sections against the filter", func(t *testing.T) {
		sections := NewClassifier([]string{"py"}).Classify(multiFilePatch)
		require.Len(t, sections, 3)

		assert.Equal(t, "py", sections[0].Extension)
		assert.True(t, sections[0].Suitable)
		assert.Equal(t, "js", sections[1].Extension)
		assert.False(t, sections[1].Suitable)
		// no extension is always suitable
		assert.Equal(t, "", sections[2].Extension)
		assert.True(t, sections[2].Suitable)
	})

	t.Run("an empty filter should accept everything", func(t *testing.T) {
		for _, s := range NewClassifier(nil).Classify(multiFilePatch) {
			assert.True(t, s.Suitable)
		}
	})

	t.Run("widening the filter should never flip a suitable section to unsuitable", func(t *testing.T) {
		filters := [][]string{{"py"}, {"py", "js"}, {"py", "js", "go"}}
		var previous []Section
		for _, f := range filters {
			current := NewClassifier(f).Classify(multiFilePatch)
			for i := range previous {
				if previous[i].Suitable {
					assert.True(t, current[i].Suitable, "filter %v flipped section %d", f, i)
				}
			}
			previous = current
		}
	})
}

func TestGlobMatcher(t *testing.T) {
	t.Run("a star should match across directories", func(t *testing.T) {
		m, err := NewGlobMatcher([]string{"*.py"})
		require.NoError(t, err)

		assert.True(t, m.MatchAny([]string{"README.md", "deep/nested/path/x.py"}))
		assert.False(t, m.MatchAny([]string{"README.md", "x.js"}))
	})

	t.Run("should skip empty patterns", func(t *testing.T) {
		m, err := NewGlobMatcher([]string{"", "  "})
		require.NoError(t, err)
		assert.True(t, m.Empty())
	})

	t.Run("should reject invalid patterns", func(t *testing.T) {
		_, err := NewGlobMatcher([]string{"[unclosed"})
		assert.Error(t, err)
	})
}
