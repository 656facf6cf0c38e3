package job

import (
	"runtime/debug"
	"time"

	"github.com/gobuffalo/buffalo/worker"
	"github.com/gobuffalo/nulls"

	"github.com/pawtrail/pawtrail-api/domain"
	"github.com/pawtrail/pawtrail-api/models"
	"github.com/pawtrail/pawtrail-api/notifications"
)

const (
	handlerKey = "job_handler"
	argJobType = "job_type"
)

const (
	SendQueuedNotifications = "send_queued_notifications"
	DeleteUnlinkedFiles     = "delete_unlinked_files"
)

const (
	sendNotificationsInterval = time.Minute
	deleteFilesInterval       = 24 * time.Hour
)

var w *worker.Worker

var handlers = map[string]func(worker.Args) error{
	SendQueuedNotifications: sendQueuedNotificationsHandler,
	DeleteUnlinkedFiles:     deleteUnlinkedFilesHandler,
}

func Init(appWorker *worker.Worker) {
	w = appWorker
	if err := (*w).Register(handlerKey, mainHandler); err != nil {
		domain.ErrLogger.Printf("error registering '%s' handler, %s", handlerKey, err)
	}

	if err := SubmitDelayed(SendQueuedNotifications, sendNotificationsInterval, map[string]any{}); err != nil {
		domain.ErrLogger.Printf("error initializing SendQueuedNotifications job: %s", err)
	}

	// Spread the daily file sweep out so multiple instances don't all run at once
	delay := time.Duration(domain.RandomInsecureIntInRange(10, 60)) * time.Minute
	if err := SubmitDelayed(DeleteUnlinkedFiles, delay, map[string]any{}); err != nil {
		domain.ErrLogger.Printf("error initializing DeleteUnlinkedFiles job: %s", err)
	}
}

func mainHandler(args worker.Args) error {
	jobType := args[argJobType].(string)

	domain.Logger.Printf("starting %s job", jobType)
	start := time.Now().UTC()

	defer func() {
		if err := recover(); err != nil {
			domain.ErrLogger.Printf("panic in job handler %s: %s\n%s", jobType, err, debug.Stack())
		}
	}()

	if err := handlers[jobType](args); err != nil {
		domain.ErrLogger.Printf("job %s failed: %s", jobType, err)
	}

	domain.Logger.Printf("completed %s job in %s", jobType, time.Since(start))
	return nil
}

// sendQueuedNotificationsHandler delivers queued notification messages. Each
// message is attempted independently so one bad address cannot block the
// queue, and failures stay queued for the next run.
func sendQueuedNotificationsHandler(args worker.Args) error {
	defer func() {
		if err := SubmitDelayed(SendQueuedNotifications, sendNotificationsInterval, map[string]any{}); err != nil {
			domain.ErrLogger.Printf("error rescheduling SendQueuedNotifications job: %s", err)
		}
	}()

	var notnUsers models.NotificationUsers
	if err := notnUsers.GetEmailsToSend(models.DB); err != nil {
		return err
	}

	for i := range notnUsers {
		sendQueuedNotification(&notnUsers[i])
	}

	return nil
}

func sendQueuedNotification(notnUser *models.NotificationUser) {
	notnUser.Load(models.DB)
	notn := notnUser.Notification

	msg := notifications.NewEmailMessage()
	msg.Body = notn.Body
	msg.Subject = notn.Subject
	msg.ToName = notnUser.ToName
	msg.ToEmail = notnUser.EmailAddress

	now := time.Now().UTC()
	notnUser.SendAttemptCount++
	notnUser.LastAttemptUTC = nulls.NewTime(now)

	if err := notifications.Send(msg); err != nil {
		domain.ErrLogger.Printf("error sending queued notification %s to %s, %s",
			notn.ID, notnUser.EmailAddress, err)
	} else {
		notnUser.SentAtUTC = nulls.NewTime(now)
	}

	if err := notnUser.Update(models.DB); err != nil {
		domain.ErrLogger.Printf("error updating notification_user %s, %s", notnUser.ID, err)
	}
}

func deleteUnlinkedFilesHandler(args worker.Args) error {
	defer func() {
		if err := SubmitDelayed(DeleteUnlinkedFiles, deleteFilesInterval, map[string]any{}); err != nil {
			domain.ErrLogger.Printf("error rescheduling DeleteUnlinkedFiles job: %s", err)
		}
	}()

	var files models.Files
	return files.DeleteUnlinked(models.DB)
}

// Submit enqueues a new Worker job for the given job type. Arguments can be provided in `args`.
func Submit(jobType string, args map[string]any) error {
	if domain.Env.GoEnv == domain.EnvTest {
		return nil
	}
	job := worker.Job{
		Queue:   "default",
		Args:    args,
		Handler: handlerKey,
	}
	job.Args[argJobType] = jobType
	return (*w).Perform(job)
}

// SubmitDelayed enqueues a delayed Worker job for the given job type. Arguments can be provided in `args`.
func SubmitDelayed(jobType string, delay time.Duration, args map[string]any) error {
	if domain.Env.GoEnv == domain.EnvTest {
		return nil
	}
	job := worker.Job{
		Queue:   "default",
		Args:    args,
		Handler: handlerKey,
	}
	job.Args[argJobType] = jobType
	return (*w).PerformIn(job, delay)
}
