package enums

type SanctionKind string

const (
	SanctionKindTempMute SanctionKind = "TEMPMUTE"
	SanctionKindTimeout  SanctionKind = "TIMEOUT"
	SanctionKindBan      SanctionKind = "BAN"
	SanctionKindWarning  SanctionKind = "WARN"
)

// SanctionKinds lists every kind in store order.
var SanctionKinds = []SanctionKind{
	SanctionKindTempMute,
	SanctionKindTimeout,
	SanctionKindBan,
	SanctionKindWarning,
}

func (k SanctionKind) Valid() bool {
	switch k {
	case SanctionKindTempMute, SanctionKindTimeout, SanctionKindBan, SanctionKindWarning:
		return true
	default:
		return false
	}
}

// Expires reports whether records of this kind carry a duration and go through the expiry sweep.
func (k SanctionKind) Expires() bool {
	return k == SanctionKindTempMute || k == SanctionKindTimeout
}
