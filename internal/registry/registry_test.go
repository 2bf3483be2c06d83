package registry

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-skater/internal/physics"
)

func TestRegisterAndCreate(t *testing.T) {
	var got physics.Settings
	Register("test-noop", "does nothing", func(s physics.Settings) physics.World {
		got = s
		return nil
	})

	if !Exists("test-noop") {
		t.Fatal("Exists(test-noop) = false after Register")
	}
	if _, err := Create("test-noop", physics.Settings{Gravity: -3}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got.Gravity != -3 {
		t.Errorf("factory got Gravity %v, expected -3", got.Gravity)
	}

	found := false
	for _, e := range List() {
		if e.Name == "test-noop" {
			found = true
			if e.Description != "does nothing" {
				t.Errorf("Description = %q, expected %q", e.Description, "does nothing")
			}
		}
	}
	if !found {
		t.Error("List() does not contain test-noop")
	}
}

func TestCreateUnknown(t *testing.T) {
	_, err := Create("missing", physics.Settings{})
	if err == nil || !strings.Contains(err.Error(), "missing") {
		t.Errorf("Create(missing) error = %v, expected unknown engine", err)
	}
	if Exists("missing") {
		t.Error("Exists(missing) = true")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("test-dup", "", func(physics.Settings) physics.World { return nil })
	defer func() {
		if recover() == nil {
			t.Error("second Register did not panic")
		}
	}()
	Register("test-dup", "", func(physics.Settings) physics.World { return nil })
}

func TestListSorted(t *testing.T) {
	Register("test-b", "", func(physics.Settings) physics.World { return nil })
	Register("test-a", "", func(physics.Settings) physics.World { return nil })

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].Name > list[i].Name {
			t.Errorf("List() not sorted: %q before %q", list[i-1].Name, list[i].Name)
		}
	}
}
