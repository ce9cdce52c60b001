package checkins

import (
	"testing"

	"github.com/julianstephens/sutrr/internal/cli"
	"github.com/julianstephens/sutrr/internal/constants"
	"github.com/julianstephens/sutrr/internal/storage"
)

func TestCheckinLog(t *testing.T) {
	tests := []struct {
		name     string
		category string
		value    int
		wantErr  bool
	}{
		{name: "mood", category: "mood", value: 3},
		{name: "energy upper bound", category: "energy", value: 100},
		{name: "cycle phase", category: "Cycle", value: 2},
		{name: "mood out of range", category: "mood", value: 6, wantErr: true},
		{name: "unknown category", category: "sleep", value: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := &cli.Context{Store: storage.NewMemoryStore()}
			defer ctx.Close()

			err := (&CheckinLogCmd{Category: tt.category, Value: tt.value}).Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckinLogCmd error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckinShow(t *testing.T) {
	ctx := &cli.Context{Store: storage.NewMemoryStore()}
	defer ctx.Close()

	if err := (&CheckinShowCmd{}).Run(ctx); err != nil {
		t.Fatalf("CheckinShowCmd on empty store failed: %v", err)
	}
	if err := (&CheckinLogCmd{Category: constants.CheckinEnergy, Value: 40}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&CheckinLogCmd{Category: constants.CheckinEnergy, Value: 80}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	a, _ := ctx.App()
	if v, _ := a.Checkins.Value(constants.CheckinEnergy); v != 80 {
		t.Errorf("energy = %d, want last logged value 80", v)
	}
	if err := (&CheckinShowCmd{}).Run(ctx); err != nil {
		t.Errorf("CheckinShowCmd failed: %v", err)
	}
}
