package booking

// Identity is either a registered account or a guest carrying contact
// details. A nil UserID marks a guest.
type Identity struct {
	UserID       *uint
	UserType     string
	ContactName  string
	ContactEmail string
}

func RegisteredIdentity(userID uint, userType string) Identity {
	id := userID
	return Identity{UserID: &id, UserType: userType}
}

func GuestIdentity(contactName, contactEmail string) Identity {
	return Identity{ContactName: contactName, ContactEmail: contactEmail}
}

func (i Identity) Registered() bool {
	return i.UserID != nil
}

// Actor is an identity plus, for guest ride owners, the manage token that
// was handed out when the ride was posted.
type Actor struct {
	Identity
	ManageToken string
}
