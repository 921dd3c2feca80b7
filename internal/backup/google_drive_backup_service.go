// Package backup pushes the training data to Google Drive: every run creates
// a dated folder under the root backups folder and fills it with a catalog
// snapshot, a program snapshot and the workouts logged since the previous run,
// chunked into JSON files.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/vstrand/gymlog/internal/exercises"
	"github.com/vstrand/gymlog/internal/program"
	"github.com/vstrand/gymlog/internal/telemetry/metrics"
	"github.com/vstrand/gymlog/internal/workouts"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	rootBackupsFolderName = "gymlog-backup"
	workoutsFileChunkSize = 200 // number of workouts in one backup file
)

// dataSource provides the data to back up (for dependency injection and testing).
type dataSource interface {
	Catalog(ctx context.Context) ([]exercises.Exercise, error)
	ProgramEntries(ctx context.Context) ([]program.WeekEntry, error)
	Sessions(ctx context.Context, createdAfter *time.Time) ([]workouts.WorkoutWithSets, error)
}

type GoogleDriveBackupService struct {
	data            dataSource
	service         *drive.Service
	backupsFolderId string
	shareWithEmail  string
	metrics         *metrics.Manager
}

func NewGoogleDriveBackupService(
	ctx context.Context,
	credentialsJson []byte,
	data dataSource,
	shareWithEmail string,
	metricsManager *metrics.Manager,
) (*GoogleDriveBackupService, error) {
	// https://github.com/googleapis/google-api-go-client/blob/master/drive/v3/drive-gen.go
	driveService, err := drive.NewService(ctx, option.WithCredentialsJSON(credentialsJson))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve drive client: %w", err)
	}

	rootFolderQuery := fmt.Sprintf("mimeType = 'application/vnd.google-apps.folder' and trashed = false and name = '%s'", rootBackupsFolderName)
	rootFolders, err := driveService.
		Files.List().
		Q(rootFolderQuery).
		Fields("files(id, name)").
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve files: %w", err)
	}

	backupsFolderId := ""
	if len(rootFolders.Files) == 1 {
		rbf := rootFolders.Files[0]
		log.Printf("root backups folder found, %s: %s", rbf.Name, rbf.Id)
		backupsFolderId = rbf.Id
	} else if len(rootFolders.Files) == 0 {
		log.Println("root backups folder not found, will recreate")
	} else {
		rbf := rootFolders.Files[0]
		log.Printf("attention: found %d root backups folders, will take the first one: %s", len(rootFolders.Files), rbf.Id)
		backupsFolderId = rbf.Id
	}

	s := &GoogleDriveBackupService{
		data:           data,
		service:        driveService,
		shareWithEmail: shareWithEmail,
		metrics:        metricsManager,
	}

	if backupsFolderId == "" {
		backupsFolderId, err = s.createRootBackupsFolder()
		if err != nil {
			return nil, fmt.Errorf("failed to create root backups folder: %w", err)
		}
		log.Printf("new root backups folder created: %s", backupsFolderId)
	} else {
		log.Printf("found backups folder ID: %s", backupsFolderId)
	}

	s.backupsFolderId = backupsFolderId

	return s, nil
}

// Reinit drops the whole root backups folder, recreates it and takes a fresh
// full backup.
func (s *GoogleDriveBackupService) Reinit(ctx context.Context, baseTime time.Time) error {
	log.Println("gymlog backup reinit starting ...")

	err := s.service.Files.
		Delete(s.backupsFolderId).
		Do()
	if err != nil {
		return err
	}

	backupsFolderId, err := s.createRootBackupsFolder()
	if err != nil {
		return fmt.Errorf("failed to create root backups folder: %w", err)
	}

	log.Printf("new root backups folder created: %s", backupsFolderId)

	s.backupsFolderId = backupsFolderId

	return s.DoBackup(ctx, baseTime)
}

// DoBackup creates one dated backup folder. The first run takes everything,
// later runs only take workouts logged after the newest existing backup
// folder. Catalog and program snapshots are small, they go in full each time.
func (s *GoogleDriveBackupService) DoBackup(ctx context.Context, baseTime time.Time) error {
	start := time.Now()

	currentBackupFolders, err := s.getBackupFolders()
	if err != nil {
		return err
	}

	folderBase := fmt.Sprintf("backup-%d-%d-%d", baseTime.Day(), baseTime.Month(), baseTime.Year())
	var createdAfter *time.Time
	if len(currentBackupFolders) == 0 {
		log.Println("backups empty, creating initial backup ...")
		folderBase = fmt.Sprintf("initial-%d-%d-%d", baseTime.Day(), baseTime.Month(), baseTime.Year())
	} else {
		log.Println("current backup folders:")
		lastCreatedAt := time.Time{}
		for _, folder := range currentBackupFolders {
			createdAt, err := time.Parse(time.RFC3339, folder.CreatedTime)
			if err != nil {
				log.Printf(" ---> error parsing created at for folder %s: %s", folder.Name, err)
				continue
			}
			log.Printf(" -- [%v]: %s (%s)\n", createdAt, folder.Name, folder.Id)

			if createdAt.After(lastCreatedAt) {
				lastCreatedAt = createdAt
			}
		}
		createdAfter = &lastCreatedAt
	}

	sessions, err := s.data.Sessions(ctx, createdAfter)
	if err != nil {
		return fmt.Errorf("failed to get workouts to backup: %w", err)
	}

	if createdAfter != nil && len(sessions) == 0 {
		log.Println("no new workouts to backup, done")
		return nil
	}

	folderName := nextBackupFolderName(currentBackupFolders, folderBase)
	folderId, err := s.createBackupFolder(folderName)
	if err != nil {
		return fmt.Errorf("failed to create backup folder %s: %w", folderName, err)
	}
	log.Printf("backup folder %s created: %s", folderName, folderId)

	catalog, err := s.data.Catalog(ctx)
	if err != nil {
		return fmt.Errorf("failed to get exercises to backup: %w", err)
	}
	if err := s.createJSONFile(folderId, "exercises.json", catalog); err != nil {
		return err
	}

	programEntries, err := s.data.ProgramEntries(ctx)
	if err != nil {
		return fmt.Errorf("failed to get program entries to backup: %w", err)
	}
	if err := s.createJSONFile(folderId, "program.json", programEntries); err != nil {
		return err
	}

	log.Printf(" ---- backing up %d workouts into %s", len(sessions), folderName)
	for i, chunk := range sessionChunks(sessions, workoutsFileChunkSize) {
		nextFileName := fmt.Sprintf("workouts_%d.json", i+1)
		log.Printf("%s: backup file with %d workouts ...", nextFileName, len(chunk))
		if err := s.createJSONFile(folderId, nextFileName, chunk); err != nil {
			return err
		}
	}

	s.metrics.CounterBackupsDone.Inc()
	s.metrics.HistBackupDuration.Observe(time.Since(start).Seconds())

	log.Printf("backup %s successfully saved", folderName)

	return nil
}

// nextBackupFolderName picks the first <base> or <base>_N name not yet taken
// by an existing backup folder, so two runs on the same day do not collide.
func nextBackupFolderName(existing []*drive.File, base string) string {
	taken := make(map[string]bool, len(existing))
	for _, folder := range existing {
		taken[folder.Name] = true
	}

	name := base
	for counter := 2; taken[name]; counter++ {
		name = fmt.Sprintf("%s_%d", base, counter)
	}
	return name
}

// sessionChunks splits the workouts into slices of at most chunkSize, keeping
// order. An empty input yields no chunks.
func sessionChunks(sessions []workouts.WorkoutWithSets, chunkSize int) [][]workouts.WorkoutWithSets {
	if len(sessions) == 0 {
		return nil
	}

	chunks := make([][]workouts.WorkoutWithSets, 0, len(sessions)/chunkSize+1)
	for from := 0; from < len(sessions); from += chunkSize {
		to := from + chunkSize
		if to > len(sessions) {
			to = len(sessions)
		}
		chunks = append(chunks, sessions[from:to])
	}
	return chunks
}

func (s *GoogleDriveBackupService) createRootBackupsFolder() (string, error) {
	backupsFolderMeta := &drive.File{
		Name:     rootBackupsFolderName,
		MimeType: "application/vnd.google-apps.folder",
	}

	bfRes, err := s.service.
		Files.Create(backupsFolderMeta).
		Fields("id").
		Do()
	if err != nil {
		return "", err
	}

	if pId, err := s.updateFilePermission(bfRes.Id); err != nil {
		return bfRes.Id, fmt.Errorf("failed to create additional permission for root backup folder: %s", err)
	} else if pId != "" {
		log.Printf("permission %s created for root backup folder %s", pId, bfRes.Id)
	}

	return bfRes.Id, nil
}

func (s *GoogleDriveBackupService) createBackupFolder(name string) (string, error) {
	folderMeta := &drive.File{
		Name:     name,
		MimeType: "application/vnd.google-apps.folder",
		Parents:  []string{s.backupsFolderId},
	}

	res, err := s.service.
		Files.Create(folderMeta).
		Fields("id").
		Do()
	if err != nil {
		return "", err
	}

	return res.Id, nil
}

func (s *GoogleDriveBackupService) createJSONFile(folderId, name string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: failed to marshal payload: %w", name, err)
	}

	fileMeta := &drive.File{
		Name: name,
		// https://developers.google.com/drive/api/v3/mime-types
		MimeType: "application/vnd.google-apps.file",
		Parents:  []string{folderId},
	}

	backupFile, err := s.service.
		Files.Create(fileMeta).
		Fields("id, parents").
		Media(bytes.NewReader(raw)).
		Do()
	if err != nil {
		return fmt.Errorf("%s: failed to create backup file: %w", name, err)
	}

	permissionId, err := s.updateFilePermission(backupFile.Id)
	if err != nil {
		return fmt.Errorf("%s: failed to create additional permission: %s", name, err)
	}

	log.Printf("%s: backup file [permission %s] saved: %s", name, permissionId, backupFile.Id)

	return nil
}

// updateFilePermission shares the file with the configured personal account,
// so backups stay reachable outside the service account. No-op when no share
// email is set.
func (s *GoogleDriveBackupService) updateFilePermission(fileId string) (string, error) {
	if s.shareWithEmail == "" {
		return "", nil
	}

	permission := &drive.Permission{
		EmailAddress: s.shareWithEmail,
		Type:         "user",
		Role:         "reader",
	}

	createdPermission, err := s.service.Permissions.
		Create(fileId, permission).
		Do()
	if err != nil {
		return "", err
	}

	return createdPermission.Id, nil
}

func (s *GoogleDriveBackupService) getBackupFolders() ([]*drive.File, error) {
	foldersQuery := fmt.Sprintf("'%s' in parents and mimeType = 'application/vnd.google-apps.folder' and trashed = false", s.backupsFolderId)
	folders, err := s.service.
		Files.List().
		Q(foldersQuery).
		Fields("files(id, name, createdTime)").
		Do()
	if err != nil {
		return nil, err
	}

	return folders.Files, nil
}

// DestroyAllFiles deletes every file the service account can see, one page at
// a time. Run it repeatedly when more than a page of files is present.
func DestroyAllFiles(ctx context.Context, credentialsJson []byte) error {
	driveService, err := drive.NewService(ctx, option.WithCredentialsJSON(credentialsJson))
	if err != nil {
		return fmt.Errorf("unable to retrieve drive client: %w", err)
	}

	files, err := driveService.
		Files.List().
		Fields("files(id, name)").
		Do()
	if err != nil {
		return fmt.Errorf("unable to retrieve files: %w", err)
	}

	if len(files.Files) == 0 {
		log.Println("no files to destroy")
		return nil
	}

	for _, file := range files.Files {
		if err := driveService.Files.Delete(file.Id).Do(); err != nil {
			return fmt.Errorf("failed to delete %s (%s): %w", file.Name, file.Id, err)
		}
		log.Printf(" -- deleted %s (%s)", file.Name, file.Id)
	}

	log.Printf("destroyed %d files", len(files.Files))

	return nil
}
