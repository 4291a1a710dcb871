package wire

// Subsystem identifies a server subsystem reported by the idle mechanism.
// Values not listed below pass through unchanged, so clients keep working
// when the server introduces new subsystems.
type Subsystem string

// Known subsystems.
const (
	// SubsystemDatabase: the song database was modified.
	SubsystemDatabase Subsystem = "database"

	// SubsystemUpdate: a database update started or finished.
	SubsystemUpdate Subsystem = "update"

	// SubsystemStoredPlaylist: a stored playlist was modified.
	SubsystemStoredPlaylist Subsystem = "stored_playlist"

	// SubsystemQueue: the current play queue changed.
	// Reported as "playlist" on the wire for historical reasons.
	SubsystemQueue Subsystem = "queue"

	// SubsystemPlayer: playback state changed (start, stop, seek).
	SubsystemPlayer Subsystem = "player"

	// SubsystemMixer: the volume changed.
	SubsystemMixer Subsystem = "mixer"

	// SubsystemOutput: an audio output was enabled or disabled.
	SubsystemOutput Subsystem = "output"

	// SubsystemOptions: playback options changed (repeat, random, ...).
	SubsystemOptions Subsystem = "options"

	// SubsystemPartition: a partition was added, removed or changed.
	SubsystemPartition Subsystem = "partition"

	// SubsystemSticker: the sticker database changed.
	SubsystemSticker Subsystem = "sticker"

	// SubsystemSubscription: a client subscribed or unsubscribed a channel.
	SubsystemSubscription Subsystem = "subscription"

	// SubsystemMessage: a message arrived on a subscribed channel.
	SubsystemMessage Subsystem = "message"

	// SubsystemNeighbor: a neighbor plugin found or lost something.
	SubsystemNeighbor Subsystem = "neighbor"

	// SubsystemMount: the mount list changed.
	SubsystemMount Subsystem = "mount"
)

// changedField is the response key carrying subsystem names in idle replies.
const changedField = "changed"

// ParseSubsystem maps a raw subsystem name from the wire to its Subsystem
// value. Unknown names are preserved as-is.
func ParseSubsystem(raw string) Subsystem {
	// The queue subsystem predates its current name.
	if raw == "playlist" {
		return SubsystemQueue
	}
	return Subsystem(raw)
}

// String returns the subsystem name.
func (s Subsystem) String() string {
	return string(s)
}

// ChangedSubsystems extracts the subsystems reported by an idle reply frame.
// Returns nil if the frame reports none.
func ChangedSubsystems(f *Frame) []Subsystem {
	raw := f.Values(changedField)
	if len(raw) == 0 {
		return nil
	}
	subs := make([]Subsystem, len(raw))
	for i, r := range raw {
		subs[i] = ParseSubsystem(r)
	}
	return subs
}
