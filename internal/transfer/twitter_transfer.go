package transfer

type TwitterUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// TwitterUserResponse is the body of GET /2/users/me.
type TwitterUserResponse struct {
	Data *TwitterUser `json:"data"`
}
