package transfer

// Graph API payloads. Collections are pointers so a response that omits the
// "data" key can be told apart from an empty page.

type FacebookTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type FacebookPage struct {
	ID                       string `json:"id"`
	Name                     string `json:"name"`
	AccessToken              string `json:"access_token"`
	InstagramBusinessAccount *struct {
		ID string `json:"id"`
	} `json:"instagram_business_account"`
}

type FacebookPagesResponse struct {
	Data *[]FacebookPage `json:"data"`
}

type InstagramUserInfo struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type InstagramMedia struct {
	ID        string `json:"id"`
	Caption   string `json:"caption"`
	MediaType string `json:"media_type"`
	Timestamp string `json:"timestamp"`
}

type InstagramMediaResponse struct {
	Data   *[]InstagramMedia `json:"data"`
	Paging *struct {
		Next string `json:"next"`
	} `json:"paging"`
}

type InstagramInsightValue struct {
	Value int64 `json:"value"`
}

type InstagramInsight struct {
	Name   string                  `json:"name"`
	Period string                  `json:"period"`
	Values []InstagramInsightValue `json:"values"`
}

type InstagramInsightsResponse struct {
	Data *[]InstagramInsight `json:"data"`
}

type InstagramErrorResponse struct {
	Error *struct {
		Message      string `json:"message"`
		Type         string `json:"type"`
		Code         int    `json:"code"`
		ErrorSubcode int    `json:"error_subcode"`
		FbtraceID    string `json:"fbtrace_id"`
	} `json:"error"`
}
