package instance

import (
	"os"
	"sync"

	"github.com/google/uuid"
)

var (
	once sync.Once
	id   string
)

// ID returns a stable identifier for this process. Cart change notifications
// carry the publisher's instance ID so a subscriber can skip the echo of its
// own writes on the shared channel.
func ID() string {
	once.Do(func() {
		if id = os.Getenv("INSTANCE_ID"); id == "" {
			id = uuid.NewString()
		}
	})
	return id
}
