package handler

import "time"

// SetNow overrides the server clock so tests can pin "today".
func (s *Server) SetNow(now func() time.Time) { s.now = now }
