package record

import (
	"encoding/hex"
	"reflect"
	"strings"
	"testing"
)

func eq[T comparable](t testing.TB, a, e T) {
	if a != e {
		t.Helper()
		t.Fatalf("** got %v, wanted %v", a, e)
	}
}

func deepEqual[T any](t testing.TB, a, e T) {
	if !reflect.DeepEqual(a, e) {
		t.Helper()
		t.Errorf("** got %v, wanted %v", a, e)
	}
}

func x(data string) []byte {
	data = strings.ReplaceAll(data, " ", "")
	b, err := hex.DecodeString(data)
	if err != nil {
		panic(err)
	}
	return b
}

func encode(t testing.TB, rec *Record, opt EncodeOptions) ([]byte, []*FieldError) {
	t.Helper()
	buf := make([]byte, rec.Len())
	enc := NewEncoder(buf, opt)
	if err := enc.WriteRecord("t", rec, rec.Schema()); err != nil {
		t.Fatalf("WriteRecord: %v", err)
	}
	eq(t, enc.Off(), len(buf))
	return buf, enc.Problems()
}
