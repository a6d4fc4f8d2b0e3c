package processor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/codedoc/internal/format"
)

func TestDefaultTableDispatch(t *testing.T) {
	table := DefaultTable()

	code := table.Process("def f():\n", descriptor("py", "python", format.CategoryCode))
	require.Equal(t, 1, code.Statistics.Int(StatFunctionCount))

	data := table.Process("{}", descriptor("json", "json", format.CategoryStructured))
	require.Equal(t, "{}\n", data.NormalizedText)

	unknown := table.Process("x", format.Descriptor{Key: "zz", Category: format.CategoryUnknown})
	require.Equal(t, format.CategoryUnknown, unknown.Category)
	require.Equal(t, "x", unknown.NormalizedText)
}

func TestTableFallsBackToPassthrough(t *testing.T) {
	res := Table{}.Process("{", descriptor("json", "json", format.CategoryStructured))
	require.True(t, res.IsValid())
	require.Equal(t, "{", res.NormalizedText)
}

func TestTableWithIndent(t *testing.T) {
	base := DefaultTable()
	wide := base.WithIndent(4)

	d := descriptor("json", "json", format.CategoryStructured)
	require.Equal(t, "{\n    \"a\": 1\n}\n", wide.Process(`{"a":1}`, d).NormalizedText)
	require.Equal(t, "{\n  \"a\": 1\n}\n", base.Process(`{"a":1}`, d).NormalizedText)
	require.Equal(t, Code{}, wide[format.CategoryCode])
}
