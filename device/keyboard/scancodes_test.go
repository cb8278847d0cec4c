package keyboard

import "testing"

func TestEncode(t *testing.T) {
	specs := []struct {
		input string
		exp   string
	}{
		{"ls /etc", "ls /etc"},
		{"echo \"Hello, World!\" >> out\n", "echo \"Hello, World!\" >> out\n"},
		{"A-z_~|", "A-z_~|"},
		{"\r\x7f", "\n\b"},
		{"\x03", "\x03"},
		{string([]byte{KeyUp, KeyDown}), string([]byte{KeyUp, KeyDown})},
		{"caf\xc3\xa9", "caf"},
	}

	for specIndex, spec := range specs {
		kb := NewPS2(nil)
		for _, code := range EncodeString(spec.input) {
			kb.HandleScancode(code)
		}

		var got []byte
		for kb.HasChar() {
			ch, _ := kb.keys.get()
			got = append(got, ch)
		}

		if string(got) != spec.exp {
			t.Errorf("[spec %d] expected typing %q to produce %q; got %q", specIndex, spec.input, spec.exp, got)
		}
	}

	if codes := Encode(0x01); codes != nil {
		t.Errorf("expected no scancodes for an untypeable byte; got % x", codes)
	}
}
