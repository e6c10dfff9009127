package photoapp

// Ping carries the service health counters: the number of assets in
// the bucket and the number of users in the database.
type Ping struct {
	Assets int `json:"M"`
	Users  int `json:"N"`
}

type User struct {
	UserID     int64  `json:"userid"`
	Username   string `json:"username"`
	GivenName  string `json:"givenname"`
	FamilyName string `json:"familyname"`
}

type Image struct {
	AssetID   int64  `json:"assetid"`
	UserID    int64  `json:"userid"`
	LocalName string `json:"localname"`
	BucketKey string `json:"bucketkey"`
}

// Label is one object recognized in an image; confidence is an
// integer percentage in [0, 100].
type Label struct {
	Label      string `json:"label"`
	Confidence int    `json:"confidence"`
}

// ImageLabel is a label search hit tying a label back to its image.
type ImageLabel struct {
	AssetID    int64  `json:"assetid"`
	Label      string `json:"label"`
	Confidence int    `json:"confidence"`
}

type usersResponse struct {
	Data []User `json:"data"`
}

type imagesResponse struct {
	Data []Image `json:"data"`
}

type labelsResponse struct {
	Data []Label `json:"data"`
}

type imageLabelsResponse struct {
	Data []ImageLabel `json:"data"`
}

type uploadRequest struct {
	LocalFilename string `json:"local_filename"`
	Data          string `json:"data"`
}

type uploadResponse struct {
	AssetID int64 `json:"assetid"`
}

type downloadResponse struct {
	LocalFilename string `json:"local_filename"`
	Data          string `json:"data"`
}

type errorResponse struct {
	Message string `json:"message"`
}
