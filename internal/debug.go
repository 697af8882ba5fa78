package internal

import (
	"fmt"
	"os"
	"os/user"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/earthboundkid/versioninfo/v2"
	"github.com/sirupsen/logrus"
)

var sensitiveRegex = regexp.MustCompile(`(?i)(PASSWORD|API_KEY|ACCESS_KEY|SECRET|TOKEN)`)

func ShowVersion(logger logrus.FieldLogger) {
	logger.WithFields(logrus.Fields{
		"version":    versioninfo.Short(),
		"go":         runtime.Version(),
		"gomaxprocs": runtime.GOMAXPROCS(0),
	}).Info("Version")
}

// EnvironmentVars logs the ANIME4K_* settings in key order, masking anything
// that looks like a credential.
func EnvironmentVars(logger logrus.FieldLogger) {
	for _, kv := range maskedEnviron(os.Environ(), "ANIME4K_") {
		logger.Debugf("  %s", kv)
	}
}

func maskedEnviron(environ []string, prefix string) []string {
	out := make([]string, 0, len(environ))
	for _, entry := range environ {
		kv := strings.SplitN(entry, "=", 2)
		if !strings.HasPrefix(kv[0], prefix) {
			continue
		}
		value := ""
		if len(kv) == 2 {
			value = kv[1]
		}
		if sensitiveRegex.MatchString(kv[0]) {
			value = "********"
		}
		out = append(out, kv[0]+": "+value)
	}
	sort.Strings(out)
	return out
}

func UserInfo(logger logrus.FieldLogger) {
	fields := logrus.Fields{"pid": os.Getpid()}

	currentUser, err := user.Current()
	if err != nil {
		logger.Debugf("Error getting current user: %v", err)
	} else {
		fields["user"] = fmt.Sprintf("uid=%s(%s) gid=%s", currentUser.Uid, currentUser.Username, currentUser.Gid)
	}

	groups, err := os.Getgroups()
	if err != nil {
		logger.Debugf("Error getting groups: %v", err)
	} else {
		groupNames := make([]string, 0, len(groups))
		for _, gid := range groups {
			group, err := user.LookupGroupId(strconv.Itoa(gid))
			if err != nil {
				groupNames = append(groupNames, strconv.Itoa(gid)) // Append ID if name lookup fails
			} else {
				groupNames = append(groupNames, fmt.Sprintf("%s(%s)", group.Name, group.Gid))
			}
		}
		fields["groups"] = groupNames
	}

	logger.WithFields(fields).Debug("Process")
}
