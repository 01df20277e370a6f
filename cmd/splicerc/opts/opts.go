package opts

import (
	"github.com/walteh/splicerc/pkg/config"
	"github.com/walteh/splicerc/pkg/log"
	"github.com/walteh/splicerc/pkg/status"
)

// RootOpts contains shared options used by all commands. It is filled in by
// the root command's pre-run hook once flags are parsed.
type RootOpts struct {
	Config *config.Config
	Files  status.Store
	Logger *log.Logger

	Strict bool
	Backup bool
	Async  bool
}

// StrictFor reports whether missing target blocks are fatal
func (o *RootOpts) StrictFor() bool {
	return o.Strict || o.Config.Strict
}

// BackupFor reports whether targets are backed up before writing
func (o *RootOpts) BackupFor() bool {
	return o.Backup || o.Config.Backup
}

// AsyncFor reports whether jobs run concurrently
func (o *RootOpts) AsyncFor() bool {
	return o.Async || o.Config.Async
}
