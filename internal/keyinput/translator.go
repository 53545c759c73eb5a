package keyinput

import (
	"encoding/json"
	"os"
)

// RawKey is the raw terminal-reported key before translation: a
// backend-specific byte sequence (for escape sequences a terminal
// emulator sends for e.g. Home/End) or, for ordinary runes, the rune's
// own text. Both go through table lookup; a key with no table entry is
// translated as itself.
type RawKey string

// TranslationTable maps raw terminal sequences to the KeyEvent they
// represent. It is populated by calibration and persisted so repeat
// runs in the same terminal skip recalibration.
type TranslationTable map[RawKey]KeyEvent

// KeyTranslator normalizes raw terminal input into KeyEvents. Unknown
// raw sequences are returned unchanged as an identity KeyEvent built
// from the sequence's first rune, per spec §4.6.
type KeyTranslator struct {
	table TranslationTable
}

// NewKeyTranslator creates a translator over table (nil is valid and
// behaves as an empty table).
func NewKeyTranslator(table TranslationTable) *KeyTranslator {
	if table == nil {
		table = make(TranslationTable)
	}
	return &KeyTranslator{table: table}
}

// Translate looks up raw in the table. A miss falls back to identity:
// a rune event from raw's first character, or KeyNone for an empty
// sequence.
func (t *KeyTranslator) Translate(raw RawKey) KeyEvent {
	if ev, ok := t.table[raw]; ok {
		return ev
	}
	runes := []rune(string(raw))
	if len(runes) == 0 {
		return KeyEvent{Key: KeyNone}
	}
	return NewRuneEvent(runes[0], ModNone)
}

// Table returns the live translation table so a calibration session
// can add to it.
func (t *KeyTranslator) Table() TranslationTable { return t.table }

// Load replaces the table with the contents of path's persisted JSON
// file. encoding/json is used here, not gjson/sjson, since this is a
// single flat map serialization with no layered diff/patch need — the
// JSON-pointer machinery those libraries add value for doesn't apply.
func (t *KeyTranslator) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	table := make(TranslationTable)
	if err := json.Unmarshal(data, &table); err != nil {
		return err
	}
	t.table = table
	return nil
}

// Save persists the current table as JSON to path.
func (t *KeyTranslator) Save(path string) error {
	data, err := json.MarshalIndent(t.table, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// CalibrationSession drives the guided terminal-key calibration
// wizard: for each key the wizard asks the user to press, it records
// the raw sequence the terminal actually sent, then on completion
// persists the populated table.
type CalibrationSession struct {
	translator *KeyTranslator
	pending    []KeyEvent
	recorded   map[KeyEvent]RawKey
}

// NewCalibrationSession starts a session asking the user to press each
// of wanted, in order.
func NewCalibrationSession(translator *KeyTranslator, wanted []KeyEvent) *CalibrationSession {
	return &CalibrationSession{
		translator: translator,
		pending:    append([]KeyEvent(nil), wanted...),
		recorded:   make(map[KeyEvent]RawKey),
	}
}

// Next returns the KeyEvent the wizard is currently asking for, and
// false once every requested key has been recorded.
func (s *CalibrationSession) Next() (KeyEvent, bool) {
	if len(s.pending) == 0 {
		return KeyEvent{}, false
	}
	return s.pending[0], true
}

// Record associates the raw sequence the terminal just sent with the
// key the wizard was currently asking for, and advances to the next
// one.
func (s *CalibrationSession) Record(raw RawKey) {
	if len(s.pending) == 0 {
		return
	}
	want := s.pending[0]
	s.pending = s.pending[1:]
	s.recorded[want] = raw
}

// Done returns true once every requested key has a recorded sequence.
func (s *CalibrationSession) Done() bool { return len(s.pending) == 0 }

// Commit writes every recorded mapping into the translator's table and
// persists it to path on success, per spec §4.6 ("on success the table
// is persisted").
func (s *CalibrationSession) Commit(path string) error {
	for key, raw := range s.recorded {
		s.translator.table[raw] = key
	}
	return s.translator.Save(path)
}
