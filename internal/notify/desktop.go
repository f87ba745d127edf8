package notify

import (
	"context"

	"github.com/gen2brain/beeep"
)

// Desktop shows system notifications through the host's notification
// daemon. It is the only permission-gated channel: while the permission
// state is not granted every send is silently suppressed.
type Desktop struct {
	permission *Permission
}

// NewDesktop builds the desktop channel gated on the given permission.
func NewDesktop(permission *Permission) *Desktop {
	return &Desktop{permission: permission}
}

// Name implements Channel.
func (d *Desktop) Name() string { return "desktop" }

// Send shows the notification when permission has been granted.
func (d *Desktop) Send(_ context.Context, msg Message) error {
	if !d.permission.Granted() {
		return nil
	}
	return beeep.Notify(msg.Title, msg.Body, "")
}
