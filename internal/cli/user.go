package cli

import (
	"github.com/julianstephens/nazmara/internal/constants"
	"github.com/julianstephens/nazmara/internal/form"
)

type UserCmd struct {
	Offline UserOfflineCmd `cmd:"" help:"Create an offline profile."`
	Signup  UserSignupCmd  `cmd:"" help:"Store a profile linked to a remote account."`
	List    UserListCmd    `cmd:"" help:"List profiles."`
}

type UserOfflineCmd struct {
	First    string `help:"First name." required:""`
	Last     string `help:"Last name." required:""`
	Nickname string `help:"Nickname." required:""`
}

func (c *UserOfflineCmd) Run(ctx *Context) error {
	data, err := ctx.submit(map[string]string{
		constants.FieldFirstName: c.First,
		constants.FieldLastName:  c.Last,
		constants.FieldNickname:  c.Nickname,
	}, form.OfflineUserFields, false)
	if err != nil {
		return err
	}

	id, err := ctx.Store.AddOfflineUser(
		data.String(constants.FieldNickname),
		data.String(constants.FieldFirstName),
		data.String(constants.FieldLastName),
	)
	if err != nil {
		return err
	}
	ctx.printf("Created offline profile %s (ID: %d)\n", data.String(constants.FieldNickname), id)
	return nil
}

type UserSignupCmd struct {
	First    string `help:"First name." required:""`
	Last     string `help:"Last name." required:""`
	Nickname string `help:"Nickname." required:""`
	Email    string `help:"Email address." required:""`
	Password string `help:"Password, checked for strength." required:""`
	RemoteID int64  `name:"remote-id" help:"Account id assigned by the server." required:""`
	Token    string `help:"Session token from the server."`
}

func (c *UserSignupCmd) Run(ctx *Context) error {
	data, err := ctx.submit(map[string]string{
		constants.FieldFirstName: c.First,
		constants.FieldLastName:  c.Last,
		constants.FieldNickname:  c.Nickname,
		constants.FieldEmail:     c.Email,
		constants.FieldPassword:  c.Password,
	}, form.SignupFields, true)
	if err != nil {
		return err
	}

	id, err := ctx.Store.AddOnlineUser(
		c.RemoteID,
		data.String(constants.FieldNickname),
		c.Token,
		data.String(constants.FieldFirstName),
		data.String(constants.FieldLastName),
		data.String(constants.FieldEmail),
	)
	if err != nil {
		return err
	}
	ctx.printf("Created profile %s <%s> (ID: %d)\n",
		data.String(constants.FieldNickname), data.String(constants.FieldEmail), id)
	return nil
}

type UserListCmd struct{}

func (c *UserListCmd) Run(ctx *Context) error {
	users, err := ctx.Store.GetListOfUsers()
	if err != nil {
		return err
	}
	if len(users) == 0 {
		ctx.println("No profiles found")
		return nil
	}

	ctx.println("Profiles:")
	for i, u := range users {
		kind := "offline"
		if !u.IsOffline() {
			kind = deref(u.Email)
		}
		marker := " "
		if i == len(users)-1 {
			marker = "*"
		}
		ctx.printf(" %s %3d  %-16s %s %s  (%s, created %s)\n",
			marker, u.ID, u.DisplayName(), deref(u.FirstName), deref(u.LastName), kind, ago(u.CreatedAt))
	}
	return nil
}
