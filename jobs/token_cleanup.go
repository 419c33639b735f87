package jobs

import (
	"log"
	"time"

	"home-services-server/services"
)

// TokenCleanupJob periodically deletes expired and revoked refresh tokens
type TokenCleanupJob struct {
	jwtService *services.JWTService
	interval   time.Duration
	stopChan   chan bool
}

// NewTokenCleanupJob creates a new cleanup job
func NewTokenCleanupJob() *TokenCleanupJob {
	return &TokenCleanupJob{
		jwtService: services.NewJWTService(),
		interval:   24 * time.Hour,
		stopChan:   make(chan bool),
	}
}

// Start begins the cleanup job
func (j *TokenCleanupJob) Start() {
	go j.run()
	log.Println("🚀 Token cleanup job started")
}

// Stop stops the cleanup job
func (j *TokenCleanupJob) Stop() {
	j.stopChan <- true
	log.Println("🛑 Token cleanup job stopped")
}

// run executes the cleanup job
func (j *TokenCleanupJob) run() {
	// Sweep once at startup so a long-stopped server catches up immediately
	j.sweep()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.sweep()
		case <-j.stopChan:
			return
		}
	}
}

func (j *TokenCleanupJob) sweep() {
	if err := j.jwtService.CleanupExpiredTokens(); err != nil {
		log.Printf("❌ Token cleanup failed: %v", err)
	}
}
