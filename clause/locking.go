package clause

import "strconv"

type LockingStrength string

const (
	LockingStrengthUpdate = LockingStrength("UPDATE")
	LockingStrengthShare  = LockingStrength("SHARE")
)

type LockingOptions string

const (
	LockingOptionsSkipLocked = LockingOptions("SKIP LOCKED")
	LockingOptionsNoWait     = LockingOptions("NOWAIT")
)

type Locking struct {
	Strength LockingStrength
	Columns  []Column
	Options  LockingOptions
	// Wait is a lock wait in seconds, rendered as WAIT n when positive
	Wait int
}

// Name where clause name
func (locking Locking) Name() string {
	return "FOR"
}

// Build build where clause
func (locking Locking) Build(builder Builder) {
	builder.WriteString(string(locking.Strength))
	if len(locking.Columns) > 0 {
		builder.WriteString(" OF ")
		buildList(builder, locking.Columns, func(column Column) { builder.WriteQuoted(column) })
	}

	switch {
	case locking.Options != "":
		builder.WriteByte(' ')
		builder.WriteString(string(locking.Options))
	case locking.Wait > 0:
		builder.WriteString(" WAIT ")
		builder.WriteString(strconv.Itoa(locking.Wait))
	}
}
