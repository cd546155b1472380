package domain

import (
	"errors"
	"testing"
)

func TestFieldOutcome(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		o := Ok(HostnameResult{Name: "foo"})
		v, err := o.Get()
		if err != nil || v.Name != "foo" {
			t.Errorf("Get() = %v, %v", v, err)
		}
		if o.Failed() {
			t.Error("expected Failed() = false")
		}
	})

	t.Run("fail", func(t *testing.T) {
		boom := errors.New("boom")
		o := Fail[[]DiskUsage](boom)
		if !o.Failed() || !errors.Is(o.Err(), boom) {
			t.Errorf("expected failed outcome with boom, got %v", o.Err())
		}
	})

	t.Run("fail with nil error still fails", func(t *testing.T) {
		if !Fail[int](nil).Failed() {
			t.Error("expected Fail(nil) to be a failure")
		}
	})

	t.Run("erase keeps value and error", func(t *testing.T) {
		v, err := Erase(Ok(42)).Get()
		if err != nil || v != 42 {
			t.Errorf("Erase(Ok(42)) = %v, %v", v, err)
		}
		if !Erase(Fail[int](errors.New("x"))).Failed() {
			t.Error("expected erased failure to stay failed")
		}
	})
}
