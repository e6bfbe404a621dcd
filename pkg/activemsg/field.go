package activemsg

// field holds one message field. An explicit non-empty value resolves the
// field immediately; otherwise the first get computes the default and keeps
// it, even if the default is itself empty. Setting an empty value clears the
// resolution so the default applies again.
type field[T any] struct {
	value    T
	resolved bool
	empty    func(T) bool
}

func textField() field[string] {
	return field[string]{empty: func(s string) bool { return s == "" }}
}

func listField() field[[]string] {
	return field[[]string]{empty: func(s []string) bool { return len(s) == 0 }}
}

func (f *field[T]) set(v T) {
	f.value = v
	f.resolved = !f.empty(v)
}

// resolve stores v as the final value, empty or not.
func (f *field[T]) resolve(v T) {
	f.value = v
	f.resolved = true
}

func (f *field[T]) get(def func() T) T {
	if !f.resolved {
		if f.empty(f.value) {
			f.value = def()
		}
		f.resolved = true
	}
	return f.value
}
