package model

// AccountBook is the whole accounts collection, keyed by username
type AccountBook struct {
	Accounts map[string]*Account `json:"accounts"`
}

// NewAccountBook returns the empty accounts document
func NewAccountBook() *AccountBook {
	return &AccountBook{Accounts: make(map[string]*Account)}
}

// Get returns the account for username, or ErrAccountNotFound
func (b *AccountBook) Get(username string) (*Account, error) {
	acct, ok := b.Accounts[username]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return acct, nil
}

// Ledger is the whole transactions collection in append order
type Ledger struct {
	Transactions []TransactionRecord `json:"transactions"`
}

// NewLedger returns the empty transactions document
func NewLedger() *Ledger {
	return &Ledger{Transactions: []TransactionRecord{}}
}

// MatchBook is the whole matches collection, keyed by lobby id
type MatchBook struct {
	Matches map[LobbyID]*Lobby `json:"matches"`
}

// NewMatchBook returns the empty matches document
func NewMatchBook() *MatchBook {
	return &MatchBook{Matches: make(map[LobbyID]*Lobby)}
}

// Get returns the lobby with id, or ErrLobbyNotFound
func (b *MatchBook) Get(id LobbyID) (*Lobby, error) {
	lobby, ok := b.Matches[id]
	if !ok {
		return nil, ErrLobbyNotFound
	}
	return lobby, nil
}

// ActiveLobbyFor returns the oldest non-terminal lobby username plays in, or nil
func (b *MatchBook) ActiveLobbyFor(username string) *Lobby {
	var found []*Lobby
	for _, l := range b.Matches {
		if l.IsActive() && l.HasPlayer(username) {
			found = append(found, l)
		}
	}
	if len(found) == 0 {
		return nil
	}
	SortLobbies(found)
	return found[0]
}
