package compiler

import (
	"strings"
	"testing"
)

func TestControlFlow(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:  "If",
			input: "prg p; begin if 1 = 1 then write(1); end.",
			expected: code(
				"INPP",
				"CRCT 1",
				"CRCT 1",
				"CMIG",
				"DSVF L1",
				"CRCT 1",
				"IMPR",
				"L1: NADA",
				"PARA",
				"FIM",
			),
		},
		{
			name:  "If Else",
			input: "prg p; var int x; begin if x > 0 then x <- 1 else x <- 2; end.",
			expected: code(
				"INPP",
				"AMEM 1",
				"CRVL 0,0",
				"CRCT 0",
				"CMMA",
				"DSVF L1",
				"CRCT 1",
				"ARMZ 0,0",
				"DSVS L2",
				"L1: NADA",
				"CRCT 2",
				"ARMZ 0,0",
				"L2: NADA",
				"DMEM 1",
				"PARA",
				"FIM",
			),
		},
		{
			name:  "Dangling Else Binds Inner If",
			input: "prg p; begin if 1 < 2 then if 2 < 3 then write(1) else write(2); end.",
			expected: code(
				"INPP",
				"CRCT 1",
				"CRCT 2",
				"CMME",
				"DSVF L1",
				"CRCT 2",
				"CRCT 3",
				"CMME",
				"DSVF L2",
				"CRCT 1",
				"IMPR",
				"DSVS L3",
				"L2: NADA",
				"CRCT 2",
				"IMPR",
				"L3: NADA",
				"L1: NADA",
				"PARA",
				"FIM",
			),
		},
		{
			name:  "While",
			input: "prg p; var int i; begin while i < 3 do i <- i + 1; end.",
			expected: code(
				"INPP",
				"AMEM 1",
				"L1: NADA",
				"CRVL 0,0",
				"CRCT 3",
				"CMME",
				"DSVF L2",
				"CRVL 0,0",
				"CRCT 1",
				"SOMA",
				"ARMZ 0,0",
				"DSVS L1",
				"L2: NADA",
				"DMEM 1",
				"PARA",
				"FIM",
			),
		},
		{
			name:  "Repeat",
			input: "prg p; var int i; begin repeat i <- i + 1; write(i); until i >= 3; end.",
			expected: code(
				"INPP",
				"AMEM 1",
				"L1: NADA",
				"CRVL 0,0",
				"CRCT 1",
				"SOMA",
				"ARMZ 0,0",
				"CRVL 0,0",
				"IMPR",
				"CRVL 0,0",
				"CRCT 3",
				"CMAG",
				"DSVF L1",
				"DMEM 1",
				"PARA",
				"FIM",
			),
		},
		{
			name:  "Empty Repeat",
			input: "prg p; begin repeat until 1 = 1; end.",
			expected: code(
				"INPP",
				"L1: NADA",
				"CRCT 1",
				"CRCT 1",
				"CMIG",
				"DSVF L1",
				"PARA",
				"FIM",
			),
		},
		{
			name:  "For",
			input: "prg p; var int i, s; begin for (i <- 1; i <= 3; i <- i + 1) s <- s + i; write(s); end.",
			expected: code(
				"INPP",
				"AMEM 2",
				"CRCT 1",
				"ARMZ 0,0",
				"L1: NADA",
				"CRVL 0,0",
				"CRCT 3",
				"CMEG",
				"DSVF L2",
				"DSVS L3",
				"L4: NADA",
				"CRVL 0,0",
				"CRCT 1",
				"SOMA",
				"ARMZ 0,0",
				"DSVS L1",
				"L3: NADA",
				"CRVL 0,1",
				"CRVL 0,0",
				"SOMA",
				"ARMZ 0,1",
				"DSVS L4",
				"L2: NADA",
				"CRVL 0,1",
				"IMPR",
				"DMEM 2",
				"PARA",
				"FIM",
			),
		},
		{
			name:  "While Inside Repeat",
			input: "prg p; var int i; begin repeat while i < 2 do i <- i + 1; until i = 2; end.",
			expected: code(
				"INPP",
				"AMEM 1",
				"L1: NADA",
				"L2: NADA",
				"CRVL 0,0",
				"CRCT 2",
				"CMME",
				"DSVF L3",
				"CRVL 0,0",
				"CRCT 1",
				"SOMA",
				"ARMZ 0,0",
				"DSVS L2",
				"L3: NADA",
				"CRVL 0,0",
				"CRCT 2",
				"CMIG",
				"DSVF L1",
				"DMEM 1",
				"PARA",
				"FIM",
			),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, _, err := CompileString(tc.input)
			if err != nil {
				t.Fatalf("CompileString failed: %v", err)
			}
			if got != tc.expected {
				t.Errorf("Code mismatch.\nExpected:\n%s\nGot:\n%s", tc.expected, got)
			}
		})
	}
}

func TestLabelsRestartPerCompilation(t *testing.T) {
	src := "prg p; begin while 1 = 1 do write(1); end."
	first, _, err := CompileString(src)
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := CompileString(src)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("second compilation differs:\n%s\nvs\n%s", first, second)
	}
}

func TestLabelsAreUnique(t *testing.T) {
	src := `prg p; var int i;
begin
	if i = 0 then i <- 1 else i <- 2;
	while i < 9 do i <- i + 1;
	for (i <- 0; i < 3; i <- i + 1) write(i);
	repeat i <- i - 1; until i = 0;
end.`
	var codeBuf strings.Builder
	res, err := Compile(src, &codeBuf, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Labels != 9 {
		t.Errorf("labels = %d, want 9", res.Labels)
	}

	defined := map[string]int{}
	for line := range strings.Lines(codeBuf.String()) {
		if label, _, ok := strings.Cut(line, ": "); ok {
			defined[label]++
		}
	}
	for label, n := range defined {
		if n != 1 {
			t.Errorf("label %s defined %d times", label, n)
		}
	}
	if len(defined) != 9 {
		t.Errorf("%d labels defined, want 9", len(defined))
	}
}
