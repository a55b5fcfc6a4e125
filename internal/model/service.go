package model

// Service identifies the git hosting platform a request or delivery targets.
type Service string

const (
	ServiceGitHub Service = "github"
	ServiceGitLab Service = "gitlab"
)

// IsValid reports whether s is one of the supported services.
func (s Service) IsValid() bool {
	switch s {
	case ServiceGitHub, ServiceGitLab:
		return true
	}
	return false
}

func (s Service) String() string { return string(s) }
