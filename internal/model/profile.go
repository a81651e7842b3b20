package model

// Profile is a named concurrency level controlling how many items download
// simultaneously and how many fragments each download fetches in parallel.
type Profile string

const (
	ProfileNormal Profile = "NORMAL"
	ProfileFast   Profile = "FAST"
	ProfileTurbo  Profile = "TURBO"
)

// ParseProfile maps a wire string to a Profile. Unknown values fall back to
// NORMAL, the most conservative level.
func ParseProfile(s string) Profile {
	switch Profile(s) {
	case ProfileFast:
		return ProfileFast
	case ProfileTurbo:
		return ProfileTurbo
	}
	return ProfileNormal
}

// TaskParallelism returns how many download tasks may run at once.
func (p Profile) TaskParallelism() int {
	switch p {
	case ProfileTurbo:
		return 4
	case ProfileFast:
		return 2
	}
	return 1
}

// FragmentParallelism returns the per-task fragment concurrency passed to
// the external tool. Opaque to the scheduler.
func (p Profile) FragmentParallelism() int {
	switch p {
	case ProfileTurbo:
		return 8
	case ProfileFast:
		return 4
	}
	return 2
}

// String returns the string representation of Profile.
func (p Profile) String() string {
	return string(p)
}
