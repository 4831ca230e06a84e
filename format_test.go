package clog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name   string
		format string
		want   []FormatPart
	}{
		{
			name:   "empty",
			format: "",
			want:   []FormatPart{},
		},
		{
			name:   "plain text",
			format: "hello",
			want:   []FormatPart{LiteralPart{"hello"}},
		},
		{
			name:   "escaped percent",
			format: "%%",
			want:   []FormatPart{LiteralPart{"%"}},
		},
		{
			name:   "escaped percent merges with text",
			format: "100%% done",
			want:   []FormatPart{LiteralPart{"100% done"}},
		},
		{
			name:   "escaped percent between text is one literal",
			format: "abc%%def",
			want:   []FormatPart{LiteralPart{"abc%def"}},
		},
		{
			name:   "unknown directive stays literal",
			format: "abc%zdef",
			want:   []FormatPart{LiteralPart{"abc%zdef"}},
		},
		{
			name:   "trailing percent",
			format: "50%",
			want:   []FormatPart{LiteralPart{"50%"}},
		},
		{
			name:   "unterminated time block",
			format: "%t(%Y",
			want:   []FormatPart{LiteralPart{"%t(%Y"}},
		},
		{
			name:   "time without parenthesis",
			format: "%tY %m",
			want:   []FormatPart{LiteralPart{"%tY "}, MessagePart{}},
		},
		{
			name:   "level and message",
			format: "[%l] %m",
			want:   []FormatPart{LiteralPart{"["}, LevelPart{}, LiteralPart{"] "}, MessagePart{}},
		},
		{
			name:   "call site",
			format: "%f:%L %F",
			want: []FormatPart{
				FilenamePart{}, LiteralPart{":"}, LinePart{}, LiteralPart{" "}, FunctionPart{},
			},
		},
		{
			name:   "time pattern",
			format: "%t(%H:%M:%S)",
			want:   []FormatPart{TimePart{Pattern: "%H:%M:%S"}},
		},
		{
			name:   "process directives",
			format: "%d%r%p%T%P",
			want: []FormatPart{
				DurationPart{}, RolloverPart{}, ProcessIDPart{}, ThreadIDPart{}, GoroutineIDPart{},
			},
		},
		{
			name:   "sgr block with rgb",
			format: "%g(%d%f(255,0,0))x%G",
			want: []FormatPart{
				SgrModifyPart{Escape: "\x1b[1m\x1b[38;2;255;0;0m"}, LiteralPart{"x"}, SgrResetPart{},
			},
		},
		{
			name:   "empty sgr block",
			format: "%g()%m",
			want:   []FormatPart{MessagePart{}},
		},
		{
			name:   "unterminated sgr block",
			format: "%g(%d %m",
			want:   []FormatPart{LiteralPart{"%g("}, DurationPart{}, LiteralPart{" "}, MessagePart{}},
		},
		{
			name:   "unimplemented directives produce nothing",
			format: "%n%x%u",
			want:   []FormatPart{},
		},
		{
			name:   "text around unimplemented directive merges",
			format: "a%nb",
			want:   []FormatPart{LiteralPart{"ab"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compile(tt.format))
		})
	}
}

func TestCompileDefaultFormat(t *testing.T) {
	parts := Compile(DefaultFormat)

	assert.Equal(t, []FormatPart{
		TimePart{Pattern: "%Y-%m-%d %H:%M:%S"},
		LiteralPart{" "},
		LevelPart{},
		LiteralPart{" "},
		SgrModifyPart{Escape: "\x1b[90m"},
		LiteralPart{"("},
		FilenamePart{},
		LiteralPart{":"},
		LinePart{},
		LiteralPart{")"},
		SgrResetPart{},
		LiteralPart{": "},
		MessagePart{},
	}, parts)
}

func TestCompileIsDeterministic(t *testing.T) {
	formats := []string{DefaultFormat, "%g(%u%b(1,2,3))%l%G %m %%", "%t(%j) %q %t("}
	for _, f := range formats {
		assert.Equal(t, Compile(f), Compile(f), f)
	}
}

func TestCompileLiteralsNeverEmpty(t *testing.T) {
	for _, f := range []string{"%m%m", "%%%%", "%n", "%g()", "x%G%Gy"} {
		for _, p := range Compile(f) {
			if lit, ok := p.(LiteralPart); ok {
				assert.NotEmpty(t, lit.Text, f)
			}
		}
	}
}
