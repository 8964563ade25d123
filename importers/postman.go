package importers

import goccyjson "github.com/goccy/go-json"

type postmanCollectionV2 struct {
	Info postmanInfoV2   `json:"info"`
	Item []postmanItemV2 `json:"item"`
}

type postmanInfoV2 struct {
	Name string `json:"name"`
}

type postmanItemV2 struct {
	Name    string           `json:"name"`
	Request *postmanRequestV2 `json:"request"`
	Item    []postmanItemV2  `json:"item"`
}

type postmanRequestV2 struct {
	Method string             `json:"method"`
	URL    *postmanURLV2      `json:"url"`
	Header []postmanHeaderV2  `json:"header"`
	Body   *postmanBodyV2     `json:"body"`
	Auth   *postmanAuthV2     `json:"auth"`
}

// postmanURLV2 models Postman's untagged string-or-object URL shape.
type postmanURLV2 struct {
	raw string
}

func (u *postmanURLV2) UnmarshalJSON(data []byte) error {
	var asString string
	if err := goccyjson.Unmarshal(data, &asString); err == nil {
		u.raw = asString
		return nil
	}
	var asObject struct {
		Raw string `json:"raw"`
	}
	if err := goccyjson.Unmarshal(data, &asObject); err != nil {
		return err
	}
	u.raw = asObject.Raw
	return nil
}

type postmanHeaderV2 struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type postmanBodyV2 struct {
	Raw *string `json:"raw"`
}

type postmanAuthV2 struct {
	Type   string                `json:"type"`
	Bearer []postmanAuthParamV2 `json:"bearer"`
	Basic  []postmanAuthParamV2 `json:"basic"`
}

type postmanAuthParamV2 struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

func parsePostmanV2(content string) ([]ParsedFolder, error) {
	var collection postmanCollectionV2
	if err := goccyjson.Unmarshal([]byte(content), &collection); err != nil {
		return nil, err
	}
	var requests []ParsedRequest
	flattenPostmanV2Items(collection.Item, &requests)
	return []ParsedFolder{{Name: collection.Info.Name, Requests: requests}}, nil
}

func flattenPostmanV2Items(items []postmanItemV2, results *[]ParsedRequest) {
	for _, item := range items {
		if item.Request != nil {
			*results = append(*results, convertPostmanV2Request(item.Name, *item.Request))
		} else if item.Item != nil {
			flattenPostmanV2Items(item.Item, results)
		}
	}
}

func convertPostmanV2Request(name string, req postmanRequestV2) ParsedRequest {
	url := ""
	if req.URL != nil {
		url = req.URL.raw
	}

	headers := map[string]string{}
	for _, h := range req.Header {
		headers[h.Key] = h.Value
	}

	bodyType := "none"
	var body *string
	if req.Body != nil && req.Body.Raw != nil {
		bodyType = "json"
		body = req.Body.Raw
	}

	authType, token, username, password := "none", (*string)(nil), (*string)(nil), (*string)(nil)
	if req.Auth != nil {
		switch req.Auth.Type {
		case "bearer":
			authType = "bearer"
			token = findAuthParam(req.Auth.Bearer, "token")
		case "basic":
			authType = "basic"
			username = findAuthParam(req.Auth.Basic, "username")
			password = findAuthParam(req.Auth.Basic, "password")
		}
	}

	return ParsedRequest{
		Name: name, Method: req.Method, URL: url, Body: body, BodyType: bodyType,
		Headers: headers, AuthType: authType, AuthToken: token,
		AuthUsername: username, AuthPassword: password,
	}
}

func findAuthParam(params []postmanAuthParamV2, key string) *string {
	for _, p := range params {
		if p.Key != key {
			continue
		}
		if s, ok := p.Value.(string); ok {
			return &s
		}
	}
	return nil
}

type postmanCollectionV1 struct {
	Name     string             `json:"name"`
	Requests []postmanRequestV1 `json:"requests"`
}

type postmanRequestV1 struct {
	Name        string  `json:"name"`
	URL         string  `json:"url"`
	Method      string  `json:"method"`
	Headers     string  `json:"headers"`
	RawModeData *string `json:"rawModeData"`
}

func parsePostmanV1(content string) ([]ParsedFolder, error) {
	var collection postmanCollectionV1
	if err := goccyjson.Unmarshal([]byte(content), &collection); err != nil {
		return nil, err
	}

	requests := make([]ParsedRequest, 0, len(collection.Requests))
	for _, req := range collection.Requests {
		headers := parseColonSeparatedHeaders(req.Headers)
		requests = append(requests, ParsedRequest{
			Name: req.Name, Method: req.Method, URL: req.URL, Body: req.RawModeData,
			BodyType: "json", Headers: headers, AuthType: "none",
		})
	}

	return []ParsedFolder{{Name: collection.Name, Requests: requests}}, nil
}
