// Package reconcile implements the daily birthday reconciliation: membership
// refresh, outcast purge, role cleanup, announcements and presence cosmetics.
// The job is a function of the injected clock value, so any trigger (daily
// worker, manual run at startup) produces the same behavior.
package reconcile

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/birthmas-bot/birthmas/internal/birthday"
	"github.com/birthmas-bot/birthmas/internal/directory"
	"github.com/birthmas-bot/birthmas/internal/domain"
	"github.com/birthmas-bot/birthmas/internal/logger"
	"github.com/birthmas-bot/birthmas/internal/metrics"
)

// Reporter receives errors that escape the job body. Wired to the admin
// error channel in production; nil disables reporting.
type Reporter func(ctx context.Context, err error)

// Summary is what one reconciliation run did.
type Summary struct {
	ServersRefreshed    int
	OutcastsPurged      int
	RolesRevoked        int
	RolesGranted        int
	AnnouncementsSent   int
	AnnouncementsFailed int
}

// Job runs the reconciliation steps against the birthday service and the
// directory.
type Job struct {
	svc      birthday.Service
	dir      directory.Directory
	reporter Reporter
}

// NewJob creates a reconciliation job.
func NewJob(svc birthday.Service, dir directory.Directory, reporter Reporter) *Job {
	return &Job{svc: svc, dir: dir, reporter: reporter}
}

// Run executes one full reconciliation for the date carried by now. Each
// step is best-effort: a failure on one server, holder or honoree is logged
// and the rest proceed. Run never panics the process.
func (j *Job) Run(ctx context.Context, now time.Time) (summary Summary) {
	log := logger.FromContext(ctx)
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("reconciliation panicked: %v", r)
			log.Error(LogMsgRunPanicked, "error", err)
			if j.reporter != nil {
				j.reporter(ctx, err)
			}
		}
		metrics.ReconcileRuns.Inc()
		metrics.ReconcileDuration.Observe(time.Since(started).Seconds())
	}()

	log.Info(LogMsgRunStarting, "month", int(now.Month()), "day", now.Day())

	servers, err := j.svc.ListServers(ctx)
	if err != nil {
		log.Error(LogMsgListServersFailed, "error", err)
		if j.reporter != nil {
			j.reporter(ctx, err)
		}
		return summary
	}

	summary.ServersRefreshed = j.refreshDirectory(ctx, servers)
	summary.OutcastsPurged = j.purgeOutcasts(ctx)
	summary.RolesRevoked = j.cleanupRoles(ctx, servers)

	sent, failed, granted := j.announce(ctx, now, servers)
	summary.AnnouncementsSent = sent
	summary.AnnouncementsFailed = failed
	summary.RolesGranted = granted

	j.updateStatus(ctx, now, sent+failed)

	log.Info(LogMsgRunCompleted,
		"servers_refreshed", summary.ServersRefreshed,
		"outcasts_purged", summary.OutcastsPurged,
		"roles_revoked", summary.RolesRevoked,
		"roles_granted", summary.RolesGranted,
		"announcements_sent", summary.AnnouncementsSent,
		"announcements_failed", summary.AnnouncementsFailed)
	return summary
}

// refreshDirectory re-downloads membership for every configured server so
// the purge and role steps see current state. Per-server failures are
// logged and skipped.
func (j *Job) refreshDirectory(ctx context.Context, servers []domain.ServerConfig) int {
	log := logger.FromContext(ctx)
	refreshed := 0
	for _, srv := range servers {
		if err := j.dir.RefreshMembers(ctx, srv.ServerID); err != nil {
			log.Warn(LogMsgRefreshFailed, "server_id", srv.ServerID, "error", err)
			continue
		}
		refreshed++
	}
	return refreshed
}

// purgeOutcasts removes birthday records whose user has left the owning
// server. A lookup error keeps the record: only a definite non-member is
// purged.
func (j *Job) purgeOutcasts(ctx context.Context) int {
	log := logger.FromContext(ctx)

	people, err := j.svc.ListPeople(ctx)
	if err != nil {
		log.Error(LogMsgListPeopleFailed, "error", err)
		return 0
	}

	purged := 0
	for _, p := range people {
		member, err := j.dir.IsMember(ctx, p.ServerID, p.UserID)
		if err != nil {
			log.Warn(LogMsgMembershipCheckFailed, "user_id", p.UserID, "server_id", p.ServerID, "error", err)
			continue
		}
		if member {
			continue
		}
		if _, err := j.svc.RemoveBirthday(ctx, p.UserID, p.ServerID); err != nil {
			log.Error(LogMsgPurgeFailed, "user_id", p.UserID, "server_id", p.ServerID, "error", err)
			continue
		}
		log.Info(LogMsgPurgedOutcast, "user_id", p.UserID, "server_id", p.ServerID)
		metrics.OutcastsPurged.Inc()
		purged++
	}
	return purged
}

// cleanupRoles revokes the birthday role from everyone holding it on every
// give_role server, so yesterday's honorees don't keep it into today. The
// revocations fan out concurrently with per-holder failure boundaries.
func (j *Job) cleanupRoles(ctx context.Context, servers []domain.ServerConfig) int {
	log := logger.FromContext(ctx)

	var revoked atomic.Int64
	var wg sync.WaitGroup
	for _, srv := range servers {
		if !srv.GiveRole || srv.RoleID == "" {
			continue
		}

		holders, err := j.dir.RoleHolders(ctx, srv.ServerID, srv.RoleID)
		if err != nil {
			log.Warn(LogMsgRoleHoldersFailed, "server_id", srv.ServerID, "error", err)
			continue
		}

		for _, userID := range holders {
			wg.Add(1)
			go func(serverID, userID, roleID string) {
				defer wg.Done()
				if err := j.dir.RevokeRole(ctx, serverID, userID, roleID); err != nil {
					log.Warn(LogMsgRevokeFailed, "user_id", userID, "server_id", serverID, "error", err)
					return
				}
				metrics.RolesRevoked.Inc()
				revoked.Add(1)
			}(srv.ServerID, userID, srv.RoleID)
		}
	}
	wg.Wait()
	return int(revoked.Load())
}

// announce handles every person whose stored month and day match now:
// resolve the user, grant the role when the server is configured for it,
// and post the greeting. The fan-out is joined before returning so a
// shutdown cannot orphan in-flight sends.
func (j *Job) announce(ctx context.Context, now time.Time, servers []domain.ServerConfig) (sent, failed, granted int) {
	log := logger.FromContext(ctx)

	honorees, err := j.svc.GetBirthdays(ctx, now)
	if err != nil {
		log.Error(LogMsgGetBirthdaysFailed, "error", err)
		return 0, 0, 0
	}
	if len(honorees) == 0 {
		log.Info(LogMsgNoBirthdaysToday)
		return 0, 0, 0
	}

	configs := make(map[string]domain.ServerConfig, len(servers))
	for _, srv := range servers {
		configs[srv.ServerID] = srv
	}

	var sentN, failedN, grantedN atomic.Int64
	var wg sync.WaitGroup
	for _, person := range honorees {
		wg.Add(1)
		go func(p domain.Person) {
			defer wg.Done()

			cfg, ok := configs[p.ServerID]
			if !ok {
				log.Warn(LogMsgHonoreeServerMissing, "user_id", p.UserID, "server_id", p.ServerID)
				metrics.AnnouncementFailures.Inc()
				failedN.Add(1)
				return
			}

			user, err := j.dir.ResolveUser(ctx, p.UserID)
			if err != nil {
				log.Warn(LogMsgResolveUserFailed, "user_id", p.UserID, "error", err)
				metrics.AnnouncementFailures.Inc()
				failedN.Add(1)
				return
			}

			if cfg.GiveRole && cfg.RoleID != "" {
				if err := j.dir.GrantRole(ctx, cfg.ServerID, p.UserID, cfg.RoleID); err != nil {
					log.Warn(LogMsgGrantFailed, "user_id", p.UserID, "server_id", cfg.ServerID, "error", err)
				} else {
					metrics.RolesGranted.Inc()
					grantedN.Add(1)
				}
			}

			greeting := fmt.Sprintf(AnnouncementFormat, user.Mention())
			if err := j.dir.Announce(ctx, cfg.AnnouncementChannelID, greeting); err != nil {
				log.Error(LogMsgAnnounceFailed, "user_id", p.UserID, "channel_id", cfg.AnnouncementChannelID, "error", err)
				metrics.AnnouncementFailures.Inc()
				failedN.Add(1)
				return
			}

			log.Info(LogMsgAnnounced, "user_id", p.UserID, "server_id", cfg.ServerID)
			metrics.AnnouncementsSent.Inc()
			sentN.Add(1)
		}(person)
	}
	wg.Wait()

	return int(sentN.Load()), int(failedN.Load()), int(grantedN.Load())
}

// updateStatus refreshes the bot's presence after a run. Best-effort.
func (j *Job) updateStatus(ctx context.Context, now time.Time, honorees int) {
	log := logger.FromContext(ctx)

	var status string
	if honorees > 0 {
		status = fmt.Sprintf(StatusCelebratingFormat, honorees)
	} else {
		version, err := j.svc.BotVersion(ctx)
		if err != nil {
			log.Warn(LogMsgVersionLookupFailed, "error", err)
			version = "0.0.0"
		}
		status = fmt.Sprintf(StatusIdleFormat, version, now.Format(StatusDateLayout))
	}

	if err := j.dir.SetPresence(ctx, status); err != nil {
		log.Warn(LogMsgStatusUpdateFailed, "error", err)
	}
}
