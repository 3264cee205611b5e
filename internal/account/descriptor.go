package account

// Descriptor holds everything that differs between the player and admin login flows.
type Descriptor struct {
	Role        Role
	Table       string
	Slot        string
	LoginPath   string
	LandingPath string

	// approved reports whether the account may log in; nil means no gate
	approved func(*Account) bool
}

var descriptors = map[Role]Descriptor{
	RolePlayer: {
		Role:        RolePlayer,
		Table:       "players",
		Slot:        "player",
		LoginPath:   "/player/login",
		LandingPath: "/player/home",
		approved: func(a *Account) bool {
			return a.Player != nil && a.Player.IsApproved
		},
	},
	RoleAdmin: {
		Role:        RoleAdmin,
		Table:       "admins",
		Slot:        "admin",
		LoginPath:   "/admin/login",
		LandingPath: "/admin/home",
	},
}

// Descriptors returns both role descriptors, players first.
func Descriptors() []Descriptor {
	return []Descriptor{descriptors[RolePlayer], descriptors[RoleAdmin]}
}

func DescriptorFor(role Role) (Descriptor, error) {
	d, ok := descriptors[role]
	if !ok {
		return Descriptor{}, ErrUnknownRole
	}
	return d, nil
}

func (d Descriptor) HasApprovalGate() bool {
	return d.approved != nil
}

func (d Descriptor) Approved(a *Account) bool {
	if d.approved == nil {
		return true
	}
	return d.approved(a)
}

// Other returns the descriptor of the opposite role.
func (d Descriptor) Other() Descriptor {
	if d.Role == RolePlayer {
		return descriptors[RoleAdmin]
	}
	return descriptors[RolePlayer]
}
