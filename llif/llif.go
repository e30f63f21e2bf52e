package llif

// StartOps is the set of lifecycle callbacks a start strategy implements in
// order to be run by the libcontainer factory.
//
// The factory calls them at fixed points of the start sequence:
//
// PreStartFunc (optional, see PreStartOps) runs in the calling process before
// the init process is spawned.
//
// StartFunc runs in the init process. It is expected to replace the process
// image and therefore only returns on failure.
//
// PostStartFunc runs in the calling process once the init process has
// reached exec, with Pid set to its process id.
//
// Type names the strategy. The init process is a fresh re-exec of the
// runtime, so the factory passes the strategy's JSON encoding across and
// rebinds it by type on the other side.
type StartOps interface {
	Type() string
	StartFunc(*StartInput) error
	PostStartFunc(*PostStartInput) error
}

// PreStartOps is implemented by strategies that need to run before the
// init process is created.
type PreStartOps interface {
	PreStartFunc(*PreStartInput) error
}
