package verifier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDetectBuildSystem(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, Maven, DetectBuildSystem(dir), "empty dir defaults to maven")

	writeFile(t, dir, "build.gradle", "plugins {}")
	assert.Equal(t, Gradle, DetectBuildSystem(dir))

	writeFile(t, dir, "pom.xml", "<project/>")
	assert.Equal(t, Maven, DetectBuildSystem(dir), "pom wins when both exist")

	kts := t.TempDir()
	writeFile(t, kts, "build.gradle.kts", "plugins {}")
	assert.Equal(t, Gradle, DetectBuildSystem(kts))
}

func TestHasDescriptor(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, Maven.HasDescriptor(dir))
	assert.False(t, Gradle.HasDescriptor(dir))

	writeFile(t, dir, "pom.xml", "<project/>")
	assert.True(t, Maven.HasDescriptor(dir))
	assert.False(t, Gradle.HasDescriptor(dir))
}

func TestDetectJavaVersion(t *testing.T) {
	t.Run("maven compiler properties", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "pom.xml",
			"<properties><maven.compiler.source>11</maven.compiler.source></properties>")
		assert.Equal(t, 11, DetectJavaVersion(dir))
	})

	t.Run("maven java.version property", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "pom.xml",
			"<properties><java.version>21</java.version></properties>")
		assert.Equal(t, 21, DetectJavaVersion(dir))
	})

	t.Run("gradle sourceCompatibility", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "build.gradle",
			"java { sourceCompatibility = JavaVersion.VERSION_17 }")
		assert.Equal(t, 17, DetectJavaVersion(dir))
	})

	t.Run("gradle kotlin toolchain", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "build.gradle.kts",
			"java.toolchain.languageVersion = JavaLanguageVersion.of(21)")
		assert.Equal(t, 21, DetectJavaVersion(dir))
	})

	t.Run("nothing declared", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "pom.xml", "<project/>")
		assert.Equal(t, 0, DetectJavaVersion(dir))
	})
}

const sampleTemplate = `FROM eclipse-temurin:17-jdk
WORKDIR /app
COPY . .
RUN mvn clean package -Dmaven.test.skip=true
EXPOSE 8080
CMD ["sh", "-c", "mvn quarkus:dev"]
`

func TestRenderDockerfileMavenBaseline(t *testing.T) {
	template := writeFile(t, t.TempDir(), "quarkus_Dockerfile", sampleTemplate)

	out, err := RenderDockerfile(template, TargetQuarkus, Maven, baselineJava)
	require.NoError(t, err)
	assert.Equal(t, sampleTemplate, out, "baseline maven renders verbatim")
}

func TestRenderDockerfileGradleRewrites(t *testing.T) {
	template := writeFile(t, t.TempDir(), "quarkus_Dockerfile", sampleTemplate)

	out, err := RenderDockerfile(template, TargetQuarkus, Gradle, 0)
	require.NoError(t, err)
	assert.Contains(t, out, "./gradlew clean build -x test")
	assert.Contains(t, out, "./gradlew quarkusDev")
	assert.NotContains(t, out, "mvn ")
}

func TestRenderDockerfileRepinsJavaVersion(t *testing.T) {
	template := writeFile(t, t.TempDir(), "spring_Dockerfile", sampleTemplate)

	out, err := RenderDockerfile(template, TargetSpring, Maven, fallbackJava)
	require.NoError(t, err)
	assert.Contains(t, out, "FROM eclipse-temurin:21-jdk")
	assert.NotContains(t, out, "eclipse-temurin:17-jdk")
}

func TestRenderDockerfileMissingTemplate(t *testing.T) {
	_, err := RenderDockerfile(filepath.Join(t.TempDir(), "absent"), TargetSpring, Maven, 0)
	assert.Error(t, err)
}

func TestWriteDockerignore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteDockerignore(dir))

	data, err := os.ReadFile(filepath.Join(dir, ".dockerignore"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "target/")
	assert.Contains(t, content, ".git/")
	assert.Contains(t, content, ".gradle/")
}
