package device

import (
	"testing"

	"go.viam.com/test"

	"github.com/soar/gyromouse/internal/mapping"
)

func TestNormalizeAxis(t *testing.T) {
	test.That(t, NormalizeAxis(0), test.ShouldEqual, 0.0)
	test.That(t, NormalizeAxis(32767), test.ShouldEqual, 1.0)
	test.That(t, NormalizeAxis(-32768), test.ShouldEqual, -1.0)
}

func TestNormalizeRange(t *testing.T) {
	test.That(t, NormalizeRange(0, 0, 255), test.ShouldAlmostEqual, -1.0)
	test.That(t, NormalizeRange(255, 0, 255), test.ShouldAlmostEqual, 1.0)
	test.That(t, NormalizeRange(128, 0, 256), test.ShouldAlmostEqual, 0.0)
	test.That(t, NormalizeRange(300, 0, 255), test.ShouldEqual, 1.0)
	test.That(t, NormalizeRange(5, 5, 5), test.ShouldEqual, 0.0)
}

func TestNormalizeTrigger(t *testing.T) {
	test.That(t, NormalizeTrigger(0, 0, 32767), test.ShouldEqual, 0.0)
	test.That(t, NormalizeTrigger(32767, 0, 32767), test.ShouldEqual, 1.0)
	test.That(t, NormalizeTrigger(-32768, -32768, 32767), test.ShouldEqual, 0.0)
	test.That(t, NormalizeTrigger(-10, 0, 255), test.ShouldEqual, 0.0)
}

func TestFamily(t *testing.T) {
	test.That(t, Family(0x054C), test.ShouldEqual, "playstation")
	test.That(t, Family(0x057E), test.ShouldEqual, "nintendo")
	test.That(t, Family(0x1234), test.ShouldEqual, "generic")
}

func TestReportPressed(t *testing.T) {
	var r Report
	r.Keys[mapping.JoyZL] = true
	test.That(t, r.Pressed(mapping.JoyZL), test.ShouldBeTrue)
	test.That(t, r.Pressed(mapping.JoyZR), test.ShouldBeFalse)
}
