package config

import (
	"strings"
	"testing"
)

func TestLuaParserLimitsReturnErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"cpu", "while true do end"},
		{"memory", "local s = 'x' while true do s = s .. s end"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewLuaParser(nil)
			defer p.Close()

			if _, err := p.Parse(tt.name, []byte(tt.content)); err == nil {
				t.Fatal("Parse() error = nil, want limit error")
			}
		})
	}
}

func TestLuaParserErrorNamesChunk(t *testing.T) {
	p := NewLuaParser(nil)
	defer p.Close()

	_, err := p.Parse("broken.lua", []byte("dwmstatus.config = {"))
	if err == nil || !strings.Contains(err.Error(), "broken.lua") {
		t.Errorf("Parse() error = %v, want it to name broken.lua", err)
	}
}
