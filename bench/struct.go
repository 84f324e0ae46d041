package bench

type IntArray struct {
	Data []int `json:"data" bencode:"data"`
}

type StringArray struct {
	Data []string `json:"data" bencode:"data"`
}

type MapStringString struct {
	Data map[string]string `json:"data" bencode:"data"`
}

type Struct3 struct {
	Name   string   `json:"name" bencode:"name"`
	Number int      `json:"number" bencode:"number"`
	Tags   []string `json:"tags" bencode:"tags"`
}
