package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuotePOSIX(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"javac", "javac"},
		{"./classes", "./classes"},
		{"--file=dist/App.jar", "--file=dist/App.jar"},
		{"", "''"},
		{"a b", "'a b'"},
		{"lib/*", "'lib/*'"},
		{"it's", `'it'\''s'`},
		{"$HOME", "'$HOME'"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, quotePOSIX(tt.in), "quotePOSIX(%q)", tt.in)
	}
}

func TestQuoteWindows(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"javac", "javac"},
		{`lib\*`, `lib\*`},
		{"a b", `"a b"`},
		{`say "hi"`, `"say \"hi\""`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, quoteWindows(tt.in), "quoteWindows(%q)", tt.in)
	}
}

func TestJoinFor(t *testing.T) {
	argv := []string{"java", "-cp", "a b", "Main"}

	assert.Equal(t, "java -cp 'a b' Main", joinFor([]string{"sh", "-c"}, argv))
	assert.Equal(t, `java -cp "a b" Main`, joinFor([]string{`C:\Windows\System32\cmd.exe`, "/c"}, argv))
}
