package jsonvalue

// Member is one key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Object is a JSON object that preserves member insertion order.
type Object struct {
	Members []Member
	index   map[string]int
}

// NewObject returns an empty object with room for n members.
func NewObject(n int) *Object {
	return &Object{
		Members: make([]Member, 0, n),
		index:   make(map[string]int, n),
	}
}

// Kind implements Value.
func (*Object) Kind() Kind { return KindObject }

// Set adds or replaces a member. A repeated key keeps the position of its
// first occurrence and takes the latest value, so keys stay unique.
func (o *Object) Set(key string, v Value) {
	o.ensureIndex()
	if i, ok := o.index[key]; ok {
		o.Members[i].Value = v
		return
	}
	o.index[key] = len(o.Members)
	o.Members = append(o.Members, Member{Key: key, Value: v})
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	o.ensureIndex()
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.Members[i].Value, true
}

// Len returns the number of members.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.Members)
}

// Keys returns member keys in order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.Members))
	for i, m := range o.Members {
		keys[i] = m.Key
	}
	return keys
}

// ensureIndex rebuilds the lookup table for objects built as struct literals.
func (o *Object) ensureIndex() {
	if o.index != nil && len(o.index) == len(o.Members) {
		return
	}
	o.index = make(map[string]int, len(o.Members))
	for i, m := range o.Members {
		if _, dup := o.index[m.Key]; !dup {
			o.index[m.Key] = i
		}
	}
}
