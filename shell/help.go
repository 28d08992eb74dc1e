package shell

import (
	"embed"
	"errors"
	"strings"
)

//go:embed helptext/*.txt
var helptext embed.FS

func usage(mode string) (*Response, error) {
	return usageTopic("usage-" + mode)
}

func usageTopic(topic string) (*Response, error) {
	if strings.ContainsAny(topic, "/\\.") {
		return nil, errors.New("there is no help text for the topic " + topic)
	}
	dat, err := helptext.ReadFile("helptext/" + topic + ".txt")
	if err != nil {
		return nil, errors.New("there is no help text for the topic " + topic)
	}
	return msg(strings.TrimRight(string(dat), "\n")), nil
}
