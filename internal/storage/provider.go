package storage

import "github.com/julianstephens/nazmara/internal/models"

// Provider is the set of store operations the presentation layers use.
type Provider interface {
	Init() error
	Load() error
	Path() string
	Check() (Health, error)

	AddOfflineUser(nickname, fName, lName string) (int64, error)
	AddOnlineUser(userID int64, nickname, token, fName, lName, email string) (int64, error)
	GetListOfUsers() ([]models.User, error)
	LatestUser() (models.User, error)
	GetUser(id int64) (models.User, error)

	AddTag(name string, userID int64) (string, error)
	GetTags(userID int64) ([]models.Tag, error)
	GetTag(localID string) (models.Tag, error)
	RenameTag(localID, name string) error
	DeleteTag(localID string) error

	AddTask(title string, userID int64, description string, priority models.Priority, dateTime string, tagID *string) (string, error)
	GetTask(localID string) (models.Task, error)
	GetTasksByDate(date string, userID int64) ([]models.Task, error)
	GetUserTaskDates(userID int64) ([]string, error)
	GetTaskHistory(userID int64) ([]models.Task, error)
	SetTaskComplete(localID string, complete bool) error
	ToggleTaskComplete(localID string) (bool, error)
	UpdateTask(localID, title, description string, priority models.Priority, dateTime string, tagID *string) error
	DeleteTask(localID string) error

	Rows(table string) ([]Row, error)
}

var _ Provider = (*Store)(nil)
