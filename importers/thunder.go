package importers

import goccyjson "github.com/goccy/go-json"

type thunderCollection struct {
	CollectionName string            `json:"collectionName"`
	Folders        []thunderFolder   `json:"folders"`
	Requests       []thunderRequest  `json:"requests"`
}

type thunderFolder struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type thunderRequest struct {
	ContainerID string          `json:"containerId"`
	Name        string          `json:"name"`
	URL         string          `json:"url"`
	Method      string          `json:"method"`
	Headers     []thunderHeader `json:"headers"`
	Body        *thunderBody    `json:"body"`
	Auth        *thunderAuth    `json:"auth"`
}

type thunderAuth struct {
	Type     string  `json:"type"`
	Bearer   *string `json:"bearer"`
	Username *string `json:"username"`
	Password *string `json:"password"`
}

type thunderHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type thunderBody struct {
	Type string  `json:"type"`
	Raw  *string `json:"raw"`
}

func parseThunderClient(content string) ([]ParsedFolder, error) {
	var collection thunderCollection
	if err := goccyjson.Unmarshal([]byte(content), &collection); err != nil {
		return nil, err
	}

	foldersByID := map[string]*ParsedFolder{}
	order := make([]string, 0, len(collection.Folders))
	for _, folder := range collection.Folders {
		foldersByID[folder.ID] = &ParsedFolder{Name: folder.Name}
		order = append(order, folder.ID)
	}

	var rootRequests []ParsedRequest

	for _, req := range collection.Requests {
		headers := map[string]string{}
		for _, h := range req.Headers {
			headers[h.Name] = h.Value
		}

		bodyType := "none"
		var body *string
		if req.Body != nil {
			if req.Body.Type != "" {
				bodyType = req.Body.Type
			}
			body = req.Body.Raw
		}

		authType, token, username, password := "none", (*string)(nil), (*string)(nil), (*string)(nil)
		if req.Auth != nil {
			switch req.Auth.Type {
			case "bearer":
				authType = "bearer"
				token = req.Auth.Bearer
			case "basic":
				authType = "basic"
				username = req.Auth.Username
				password = req.Auth.Password
			}
		}

		parsed := ParsedRequest{
			Name: req.Name, Method: req.Method, URL: req.URL, Body: body, BodyType: bodyType,
			Headers: headers, AuthType: authType, AuthToken: token,
			AuthUsername: username, AuthPassword: password,
		}

		if folder, ok := foldersByID[req.ContainerID]; ok {
			folder.Requests = append(folder.Requests, parsed)
		} else {
			rootRequests = append(rootRequests, parsed)
		}
	}

	result := make([]ParsedFolder, 0, len(order)+1)
	for _, id := range order {
		folder := foldersByID[id]
		if len(folder.Requests) > 0 {
			result = append(result, *folder)
		}
	}

	if len(rootRequests) > 0 {
		name := collection.CollectionName
		if name == "" {
			name = "import"
		}
		result = append(result, ParsedFolder{Name: name, Requests: rootRequests})
	}

	return result, nil
}
