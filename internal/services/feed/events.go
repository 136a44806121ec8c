package feedsvc

// Event types published on the bus. The envelope key is the id of the
// entity the event concerns; the data is the committed entity.
const (
	EventCreatePost  = "createPost"
	EventReactToPost = "reactToPost"
)
