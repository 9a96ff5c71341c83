package wallet

import "time"

// SeedAccount is a test helper that plants an account directly when using the
// in-memory store, bypassing the provisioning path.
func SeedAccount(s Store, acct Account) {
    if mem, ok := s.(*memoryStore); ok {
        mem.mu.Lock()
        defer mem.mu.Unlock()
        if acct.CreatedAt.IsZero() {
            acct.CreatedAt = time.Now().UTC()
        }
        mem.accounts[acct.CustomerID] = acct
    }
}
