package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseKind("club")
	assert.Error(t, err)
	_, err = ParseKind("")
	assert.Error(t, err)
}

func TestVariantsCarryTheirTag(t *testing.T) {
	items := []Item{
		EventPost{Base: Base{ID: "e1"}, Title: "Career fair"},
		AcademicPost{Base: Base{ID: "a1"}, Title: "Exam timetable"},
		ReportItem{Base: Base{ID: "r1"}, ItemName: "Blue umbrella", Status: "lost"},
	}
	want := []Kind{KindEvent, KindAcademic, KindReport}

	for i, it := range items {
		assert.Equal(t, want[i], it.Kind())
	}
	assert.Equal(t, "Career fair", Title(items[0]))
	assert.Equal(t, "[lost] Blue umbrella", Title(items[2]))
}

func TestKeyOf(t *testing.T) {
	it := ReportItem{Base: Base{ID: "r1", Comments: []Comment{{ID: "c1"}}}}

	key := KeyOf(it)
	assert.Equal(t, Key{ID: "r1", Kind: KindReport}, key)
	assert.Equal(t, "report/r1", key.String())
	assert.Len(t, it.ItemComments(), 1)
}
