package render

import "errors"

// scope releases acquired resources in reverse order of acquisition.
type scope struct {
	releases []func() error
}

func (s *scope) add(release func() error) {
	if release != nil {
		s.releases = append(s.releases, release)
	}
}

func (s *scope) close() error {
	var errs []error
	for i := len(s.releases) - 1; i >= 0; i-- {
		if err := s.releases[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.releases = nil
	return errors.Join(errs...)
}
