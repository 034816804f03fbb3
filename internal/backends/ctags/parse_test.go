package ctags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON(t *testing.T) {
	out := `{"_type": "ptag", "name": "JSON_OUTPUT_VERSION", "path": "0.0"}
{"_type": "tag", "name": "Store", "path": "lib/store.py", "line": 3, "kind": "class", "end": 40}
{"_type": "tag", "name": "get", "path": "lib/store.py", "line": 5, "kind": "member", "signature": "(self, key)", "scope": "Store", "scopeKind": "class", "end": 9}
{"_type": "tag", "name": "VERSION", "path": "lib/store.py", "line": 1, "kind": "variable"}
`
	res := ParseString(out)
	require.Len(t, res.Tags, 3)
	assert.Zero(t, res.Skipped)

	store := res.Tags[0]
	assert.Equal(t, "class", store.Kind)
	assert.Equal(t, 40, store.End)
	assert.Nil(t, store.Scope)

	get := res.Tags[1]
	require.NotNil(t, get.Scope)
	assert.Equal(t, "Store", get.Scope.Name)
	assert.Equal(t, "class", get.Scope.Kind)
	assert.Equal(t, "(self, key)", get.Signature)

	version := res.Tags[2]
	assert.False(t, version.HasEnd())
	assert.Empty(t, version.Signature)
}

func TestParseClassic(t *testing.T) {
	out := "!_TAG_FILE_FORMAT\t2\n" +
		"main\tsrc/main.c\t/^int main(int argc, char **argv)$/;\"\tf\tline:12\tsignature:(int argc, char **argv)\tend:30\n" +
		"Point\tsrc/geo.h\t/^struct Point {$/;\"\ts\tline:4\n" +
		"x\tsrc/geo.h\t/^  int x;$/;\"\tm\tline:5\tstruct:Point\n" +
		"odd\tsrc/x.c\t/^odd$/;\"\tq\tline:nope\n" +
		"garbage line\n"

	res := ParseString(out)
	require.Len(t, res.Tags, 4)
	assert.Equal(t, 1, res.Skipped)

	main := res.Tags[0]
	assert.Equal(t, "function", main.Kind)
	assert.Equal(t, 12, main.Line)
	assert.Equal(t, 30, main.End)
	assert.Equal(t, "(int argc, char **argv)", main.Signature)

	assert.Equal(t, "struct", res.Tags[1].Kind)

	member := res.Tags[2]
	require.NotNil(t, member.Scope)
	assert.Equal(t, "Point", member.Scope.Name)
	assert.Equal(t, "struct", member.Scope.Kind)

	// unknown kind codes pass through; bad numbers leave the line unset
	assert.Equal(t, "q", res.Tags[3].Kind)
	assert.Zero(t, res.Tags[3].Line)
}

func TestParseLineRejects(t *testing.T) {
	for _, line := range []string{"", "a\tb", "!_TAG_PROGRAM_NAME\tctags"} {
		_, ok := ParseLine(line)
		assert.False(t, ok, "line %q", line)
	}
}
