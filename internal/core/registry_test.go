package core

import (
	"testing"
)

// withRegistry swaps in an empty registry for the duration of the test.
func withRegistry(t *testing.T) {
	t.Helper()
	registryMu.Lock()
	saved := registry
	registryMu.Unlock()

	Clear()
	t.Cleanup(func() {
		registryMu.Lock()
		registry = saved
		registryMu.Unlock()
	})
}

func TestRegister_FillsColumnsFromSpecs(t *testing.T) {
	withRegistry(t)

	Register(TableDefinition{
		Info: TableInfo{Key: "search"},
		FieldSpecs: []FieldSpec{
			{Name: "NUMERO_COMPARENDO", Required: true},
			{Name: "FECHA_RESOLUCION", Type: FieldDate},
		},
	})

	def, err := Lookup("search")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	want := []string{"NUMERO_COMPARENDO", "FECHA_RESOLUCION"}
	if len(def.Info.Columns) != len(want) {
		t.Fatalf("Columns = %v, want %v", def.Info.Columns, want)
	}
	for i := range want {
		if def.Info.Columns[i] != want[i] {
			t.Errorf("Columns[%d] = %q, want %q", i, def.Info.Columns[i], want[i])
		}
	}
	if got := def.Index("fecha_resolucion"); got != 1 {
		t.Errorf("Index(fecha_resolucion) = %d, want 1", got)
	}
}

func TestRegister_CollidingHeaderKeysPanic(t *testing.T) {
	withRegistry(t)

	defer func() {
		if recover() == nil {
			t.Error("Register() with colliding header keys should panic")
		}
	}()
	Register(TableDefinition{
		Info: TableInfo{Key: "base"},
		FieldSpecs: []FieldSpec{
			{Name: "Número Comparendo"},
			{Name: "NÚMERO  comparendo"},
		},
	})
}

func TestRegister_DuplicatePanics(t *testing.T) {
	withRegistry(t)
	Register(TableDefinition{Info: TableInfo{Key: "base"}})

	defer func() {
		if recover() == nil {
			t.Error("Register() of a duplicate key should panic")
		}
	}()
	Register(TableDefinition{Info: TableInfo{Key: "base"}})
}

func TestLookup_Unknown(t *testing.T) {
	withRegistry(t)

	if _, err := Lookup("nope"); err == nil {
		t.Error("Lookup(nope) expected error")
	}
}

func TestAll_SortedByKey(t *testing.T) {
	withRegistry(t)
	Register(TableDefinition{Info: TableInfo{Key: "search"}})
	Register(TableDefinition{Info: TableInfo{Key: "base"}})

	all := All()
	if len(all) != 2 || all[0].Info.Key != "base" || all[1].Info.Key != "search" {
		t.Errorf("All() keys = %v", all)
	}
	if TableCount() != 2 {
		t.Errorf("TableCount() = %d, want 2", TableCount())
	}
}

func TestDescribeSpecs(t *testing.T) {
	got := DescribeSpecs([]FieldSpec{
		{Name: "NUMERO_COMPARENDO", Required: true},
		{Name: "Valor", Type: FieldNumeric},
	})
	want := "  NUMERO_COMPARENDO (text, required)\n  Valor (numeric, optional)\n"
	if got != want {
		t.Errorf("DescribeSpecs() = %q, want %q", got, want)
	}
}
