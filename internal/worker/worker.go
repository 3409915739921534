// Package worker drains the deferred-task queue: click counting, custom
// image generation, and graph profile refreshes. Tasks are fire-and-forget
// from the handlers' point of view; a failed task is logged and dropped
// (retries are the queue runtime's concern, not ours).
package worker

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/badgeworks/affiliates/internal/graph"
	"github.com/badgeworks/affiliates/internal/queue"
	"github.com/badgeworks/affiliates/internal/repository"
	"github.com/badgeworks/affiliates/internal/service"
	"github.com/badgeworks/affiliates/pkg/storage"
	"github.com/google/uuid"
)

const (
	dequeueTimeout = 5 * time.Second
	taskTimeout    = 30 * time.Second
)

type Worker struct {
	tasks        *queue.RedisQueue
	instanceRepo repository.InstanceRepository
	statsRepo    repository.StatsRepository
	users        service.UserService
	graph        *graph.Client
	imageStorage storage.ImageStorage
	imageFolder  string
}

func New(
	tasks *queue.RedisQueue,
	instanceRepo repository.InstanceRepository,
	statsRepo repository.StatsRepository,
	users service.UserService,
	graphClient *graph.Client,
	imageStorage storage.ImageStorage,
	imageFolder string,
) *Worker {
	return &Worker{
		tasks:        tasks,
		instanceRepo: instanceRepo,
		statsRepo:    statsRepo,
		users:        users,
		graph:        graphClient,
		imageStorage: imageStorage,
		imageFolder:  imageFolder,
	}
}

// Run drains the queue until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	log.Println("task worker started")
	for {
		select {
		case <-ctx.Done():
			log.Println("task worker stopped")
			return
		default:
		}

		task, err := w.tasks.Dequeue(ctx, dequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("failed to dequeue task: %v", err)
			time.Sleep(time.Second)
			continue
		}
		if task == nil {
			continue
		}

		taskCtx, cancel := context.WithTimeout(ctx, taskTimeout)
		if err := w.Handle(taskCtx, task); err != nil {
			log.Printf("task %s failed: %v", task.Type, err)
		}
		cancel()
	}
}

// Handle dispatches a single task. Exported so tests can run tasks inline.
func (w *Worker) Handle(ctx context.Context, task *queue.Task) error {
	switch task.Type {
	case queue.TaskAddClick:
		return w.addClick(ctx, task.InstanceID)
	case queue.TaskGenerateInstanceImage:
		return w.generateInstanceImage(ctx, task.InstanceID)
	case queue.TaskRefreshUserInfo:
		return w.users.RefreshFromGraph(ctx, task.UserID)
	default:
		return fmt.Errorf("unknown task type %q", task.Type)
	}
}

func (w *Worker) addClick(ctx context.Context, instanceID string) error {
	id, err := uuid.Parse(instanceID)
	if err != nil {
		return fmt.Errorf("bad instance id %q: %w", instanceID, err)
	}

	instance, err := w.instanceRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	return w.statsRepo.RecordClick(ctx, instance.ID, instance.UserID, time.Now())
}

func (w *Worker) generateInstanceImage(ctx context.Context, instanceID string) error {
	id, err := uuid.Parse(instanceID)
	if err != nil {
		return fmt.Errorf("bad instance id %q: %w", instanceID, err)
	}

	instance, err := w.instanceRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	bannerImage, err := fetchImage(ctx, instance.Banner.ImageURL)
	if err != nil {
		return fmt.Errorf("failed to fetch banner image: %w", err)
	}
	profilePicture, err := w.graph.ProfilePicture(ctx, instance.UserID)
	if err != nil {
		return fmt.Errorf("failed to fetch profile picture: %w", err)
	}

	composed, err := composeInstanceImage(bannerImage, profilePicture)
	if err != nil {
		return fmt.Errorf("failed to compose instance image: %w", err)
	}

	fileName := fmt.Sprintf("%s.png", instance.ID)
	imageURL, err := w.imageStorage.UploadImage(ctx, bytes.NewReader(composed), w.imageFolder, fileName)
	if err != nil {
		return fmt.Errorf("failed to upload instance image: %w", err)
	}

	return w.instanceRepo.MarkProcessed(ctx, instance.ID, imageURL)
}
