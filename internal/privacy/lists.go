package privacy

import "sort"

type idSet map[int64]struct{}

func (s idSet) add(ids ...int64) {
	for _, id := range ids {
		if id > 0 {
			s[id] = struct{}{}
		}
	}
}

func (s idSet) sorted() []int64 {
	out := make([]int64, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ContextList collects the contexts holding a user's data. Adding the same
// context twice keeps one entry.
type ContextList struct {
	ids idSet
}

func NewContextList() *ContextList {
	return &ContextList{ids: idSet{}}
}

func (l *ContextList) Add(contextIDs ...int64) {
	l.ids.add(contextIDs...)
}

func (l *ContextList) IDs() []int64 {
	return l.ids.sorted()
}

func (l *ContextList) Len() int {
	return len(l.ids)
}

// UserList collects the users holding data in one context.
type UserList struct {
	contextID int64
	ids       idSet
}

func NewUserList(contextID int64) *UserList {
	return &UserList{contextID: contextID, ids: idSet{}}
}

func (l *UserList) ContextID() int64 {
	return l.contextID
}

func (l *UserList) Add(userIDs ...int64) {
	l.ids.add(userIDs...)
}

func (l *UserList) IDs() []int64 {
	return l.ids.sorted()
}

func (l *UserList) Len() int {
	return len(l.ids)
}

// ApprovedContextList is the vetted scope of an export or erasure for one
// user.
type ApprovedContextList struct {
	UserID     int64   `json:"userid" validate:"required,gt=0"`
	ContextIDs []int64 `json:"contexts" validate:"dive,gt=0"`
}

// ApprovedUserList is the vetted set of users to erase from one context.
type ApprovedUserList struct {
	ContextID int64   `json:"contextid" validate:"required,gt=0"`
	UserIDs   []int64 `json:"users" validate:"dive,gt=0"`
}
