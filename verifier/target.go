package verifier

import (
	"fmt"
	"strings"
)

// Target is the framework a conversion migrates to. Each target carries its
// own Dockerfile template and the Gradle rewrites that template needs; there
// are exactly three and the set is closed.
type Target int

const (
	TargetJakarta Target = iota
	TargetSpring
	TargetQuarkus
)

// commandRewrite swaps a Maven invocation in a template for its Gradle
// equivalent.
type commandRewrite struct {
	maven  string
	gradle string
}

// packageRewrite is the build step shared by all templates.
var packageRewrite = commandRewrite{
	maven:  "mvn clean package -Dmaven.test.skip=true",
	gradle: "./gradlew clean build -x test",
}

// ParseTarget selects the migration target from a conversion pair name such
// as "jakarta-to-quarkus".
func ParseTarget(conversion string) (Target, error) {
	switch {
	case strings.Contains(conversion, "to-jakarta"):
		return TargetJakarta, nil
	case strings.Contains(conversion, "to-spring"):
		return TargetSpring, nil
	case strings.Contains(conversion, "to-quarkus"):
		return TargetQuarkus, nil
	}
	return 0, fmt.Errorf("unknown conversion type: %s", conversion)
}

func (t Target) String() string {
	switch t {
	case TargetJakarta:
		return "jakarta"
	case TargetSpring:
		return "spring"
	default:
		return "quarkus"
	}
}

// TemplateName is the Dockerfile template file expected under the base
// directory. Templates are read-only inputs; materialization copies them
// into the run directory.
func (t Target) TemplateName() string {
	return t.String() + "_Dockerfile"
}

// Rewrites returns the Maven-to-Gradle substitutions for this target's
// template: the shared package step plus the framework's run command.
func (t Target) Rewrites() []commandRewrite {
	var run commandRewrite
	switch t {
	case TargetJakarta:
		run = commandRewrite{maven: "mvn liberty:run", gradle: "./gradlew libertyRun"}
	case TargetSpring:
		run = commandRewrite{maven: "mvn spring-boot:run", gradle: "./gradlew bootRun"}
	case TargetQuarkus:
		run = commandRewrite{maven: "mvn quarkus:dev", gradle: "./gradlew quarkusDev"}
	}
	return []commandRewrite{packageRewrite, run}
}
