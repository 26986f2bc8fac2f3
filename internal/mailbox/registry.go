package mailbox

import (
	"github.com/lu-zhengda/mailroom/internal/domain"
)

// AccountRegistry holds the known accounts in load order.
type AccountRegistry struct {
	accounts  []domain.Account
	observers map[int]func(domain.Account)
	nextObs   int
}

func NewAccountRegistry(accounts ...domain.Account) *AccountRegistry {
	r := &AccountRegistry{observers: make(map[int]func(domain.Account))}
	r.Load(accounts)
	return r
}

// Load replaces the registry contents. Later duplicates of an id are ignored.
func (r *AccountRegistry) Load(accounts []domain.Account) {
	r.accounts = r.accounts[:0]
	for _, a := range accounts {
		if r.index(a.ID) < 0 {
			r.accounts = append(r.accounts, a)
		}
	}
}

func (r *AccountRegistry) index(id string) int {
	for i := range r.accounts {
		if r.accounts[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *AccountRegistry) List() []domain.Account {
	return append([]domain.Account(nil), r.accounts...)
}

func (r *AccountRegistry) Get(id string) (domain.Account, bool) {
	i := r.index(id)
	if i < 0 {
		return domain.Account{}, false
	}
	return r.accounts[i], true
}

func (r *AccountRegistry) Len() int { return len(r.accounts) }

// Upsert adds acc or replaces the account with the same id, then notifies
// subscribers.
func (r *AccountRegistry) Upsert(acc domain.Account) {
	if i := r.index(acc.ID); i >= 0 {
		r.accounts[i] = acc
	} else {
		r.accounts = append(r.accounts, acc)
	}
	r.notify(acc)
}

func (r *AccountRegistry) Delete(id string) bool {
	i := r.index(id)
	if i < 0 {
		return false
	}
	r.accounts = append(r.accounts[:i], r.accounts[i+1:]...)
	return true
}

// Rename changes the display label of an account and notifies subscribers.
func (r *AccountRegistry) Rename(id, label string) bool {
	i := r.index(id)
	if i < 0 {
		return false
	}
	r.accounts[i].Label = label
	r.notify(r.accounts[i])
	return true
}

// Subscribe registers fn to be called after every account change. The
// returned func removes the subscription.
func (r *AccountRegistry) Subscribe(fn func(domain.Account)) (unsubscribe func()) {
	id := r.nextObs
	r.nextObs++
	r.observers[id] = fn
	return func() { delete(r.observers, id) }
}

func (r *AccountRegistry) notify(acc domain.Account) {
	for i := 0; i < r.nextObs; i++ {
		if fn, ok := r.observers[i]; ok {
			fn(acc)
		}
	}
}

// LabelRegistry holds user labels keyed by name, in creation order.
type LabelRegistry struct {
	labels []domain.Label
}

func NewLabelRegistry(labels ...domain.Label) *LabelRegistry {
	r := &LabelRegistry{}
	for _, l := range labels {
		r.Add(l)
	}
	return r
}

func (r *LabelRegistry) index(name string) int {
	for i := range r.labels {
		if r.labels[i].Name == name {
			return i
		}
	}
	return -1
}

// Add registers label unless the name is taken, in which case the existing
// colour is kept and Add reports false.
func (r *LabelRegistry) Add(label domain.Label) bool {
	if label.Name == "" || r.index(label.Name) >= 0 {
		return false
	}
	if label.Color == "" {
		label.Color = domain.DefaultLabelColor
	}
	r.labels = append(r.labels, label)
	return true
}

func (r *LabelRegistry) Get(name string) (domain.Label, bool) {
	i := r.index(name)
	if i < 0 {
		return domain.Label{}, false
	}
	return r.labels[i], true
}

func (r *LabelRegistry) List() []domain.Label {
	return append([]domain.Label(nil), r.labels...)
}

func (r *LabelRegistry) SetColor(name, color string) bool {
	i := r.index(name)
	if i < 0 {
		return false
	}
	r.labels[i].Color = color
	return true
}

func (r *LabelRegistry) Delete(name string) bool {
	i := r.index(name)
	if i < 0 {
		return false
	}
	r.labels = append(r.labels[:i], r.labels[i+1:]...)
	return true
}
