package blob

import (
	"context"
	"testing"

	"lifetrack/internal/blob/core"
	"lifetrack/internal/config"
)

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()
	fsStore, err := Open(ctx, core.DriverFilesystem, config.Storage{FSRoot: t.TempDir()})
	if err != nil {
		t.Fatalf("fs: %v", err)
	}
	if fsStore.Driver() != core.DriverFilesystem {
		t.Fatalf("fs driver = %s", fsStore.Driver())
	}
	memStore, err := Open(ctx, core.DriverMemory, config.Storage{})
	if err != nil || memStore.Driver() != core.DriverMemory {
		t.Fatalf("memory: %v %v", memStore, err)
	}
	if _, err := Open(ctx, core.DriverS3, config.Storage{}); err == nil {
		t.Fatalf("expected s3 without bucket to fail")
	}
	if _, err := Open(ctx, core.Driver("tape"), config.Storage{}); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}
