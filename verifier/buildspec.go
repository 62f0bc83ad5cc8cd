package verifier

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// BuildSystem is the project descriptor family found in a run directory.
type BuildSystem int

const (
	Maven BuildSystem = iota
	Gradle
)

// Java versions the pipeline knows about: templates default to the baseline,
// and runs that compiled upstream get one retry at the modernized fallback.
const (
	baselineJava = 17
	fallbackJava = 21
)

// safeDockerignore bounds the build context and keeps prior build output,
// VCS metadata and IDE files out of the image.
const safeDockerignore = `target/
build/
out/
bin/
*.class
*.jar
*.war
*.ear

.mvn/
.m2/
.gradle/

.idea/
.vscode/
*.iml
*.ipr
*.iws
.classpath
.project
.settings/

.git/
.gitignore
.gitattributes

.DS_Store
Thumbs.db

.dockerignore

*.log
*.tmp
*.temp
`

var (
	mavenCompilerRe   = regexp.MustCompile(`<maven\.compiler\.(?:source|target)>(\d+)</maven\.compiler\.(?:source|target)>`)
	javaVersionRe     = regexp.MustCompile(`<java\.version>(\d+)</java\.version>`)
	gradleSourceRe    = regexp.MustCompile(`sourceCompatibility\s*=\s*JavaVersion\.VERSION_(\d+)`)
	gradleToolchainRe = regexp.MustCompile(`java\.toolchain\.languageVersion\s*=\s*JavaLanguageVersion\.of\((\d+)\)`)
	temurinRe         = regexp.MustCompile(`FROM eclipse-temurin:\d+-jdk`)
)

func (b BuildSystem) String() string {
	if b == Gradle {
		return "gradle"
	}
	return "maven"
}

// DescriptorName names the build file the system requires, for diagnostics.
func (b BuildSystem) DescriptorName() string {
	if b == Gradle {
		return "build.gradle(.kts)"
	}
	return "pom.xml"
}

// HasDescriptor reports whether the run directory carries the build file the
// detected system needs.
func (b BuildSystem) HasDescriptor(runDir string) bool {
	if b == Gradle {
		return fileExists(filepath.Join(runDir, "build.gradle")) ||
			fileExists(filepath.Join(runDir, "build.gradle.kts"))
	}
	return fileExists(filepath.Join(runDir, "pom.xml"))
}

// DetectBuildSystem picks Maven or Gradle from the descriptors present.
// Maven is the default when neither exists; the caller surfaces the missing
// descriptor as a BuildFileMissing failure.
func DetectBuildSystem(runDir string) BuildSystem {
	if fileExists(filepath.Join(runDir, "pom.xml")) {
		return Maven
	}
	if fileExists(filepath.Join(runDir, "build.gradle")) ||
		fileExists(filepath.Join(runDir, "build.gradle.kts")) {
		return Gradle
	}
	return Maven
}

// DetectJavaVersion reads the declared Java release out of the build
// descriptors. Returns 0 when nothing recognizable is declared.
func DetectJavaVersion(runDir string) int {
	if content, err := os.ReadFile(filepath.Join(runDir, "pom.xml")); err == nil {
		for _, re := range []*regexp.Regexp{mavenCompilerRe, javaVersionRe} {
			if m := re.FindSubmatch(content); m != nil {
				v, _ := strconv.Atoi(string(m[1]))
				return v
			}
		}
	}

	for _, name := range []string{"build.gradle", "build.gradle.kts"} {
		content, err := os.ReadFile(filepath.Join(runDir, name))
		if err != nil {
			continue
		}
		for _, re := range []*regexp.Regexp{gradleSourceRe, gradleToolchainRe} {
			if m := re.FindSubmatch(content); m != nil {
				v, _ := strconv.Atoi(string(m[1]))
				return v
			}
		}
	}
	return 0
}

// RenderDockerfile materializes a target's template for one build attempt.
// Gradle projects get the Maven commands rewritten, and a non-baseline Java
// version repins the base image.
func RenderDockerfile(templatePath string, target Target, system BuildSystem, javaVersion int) (string, error) {
	data, err := os.ReadFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("read dockerfile template: %w", err)
	}

	content := string(data)
	if system == Gradle {
		for _, rw := range target.Rewrites() {
			content = strings.ReplaceAll(content, rw.maven, rw.gradle)
		}
	}
	if javaVersion != 0 && javaVersion != baselineJava {
		content = temurinRe.ReplaceAllString(content,
			fmt.Sprintf("FROM eclipse-temurin:%d-jdk", javaVersion))
	}
	return content, nil
}

// WriteDockerignore installs the conservative .dockerignore into the run
// directory before every build.
func WriteDockerignore(runDir string) error {
	return os.WriteFile(filepath.Join(runDir, ".dockerignore"), []byte(safeDockerignore), 0o644)
}
