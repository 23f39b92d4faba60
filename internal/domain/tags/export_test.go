package tags

import "time"

// SetNow permite fijar el reloj desde tests externos.
func SetNow(s *Service, now func() time.Time) {
	s.now = now
}
