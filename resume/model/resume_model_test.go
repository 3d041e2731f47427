package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveEndDatePresentWhenCurrent(t *testing.T) {
	exp := Experience{EndDate: "2020-01", Current: true}
	assert.Equal(t, PresentLabel, exp.EffectiveEndDate())

	exp.Current = false
	assert.Equal(t, "2020-01", exp.EffectiveEndDate())
}

func TestApplyReplacesWholeKeys(t *testing.T) {
	base := validResume()
	custom := Customization{ColorScheme: "accent", FontFamily: "inter", Spacing: 1}

	out := base.Apply(Patch{Customization: &custom, Experiences: []Experience{}})

	assert.Equal(t, custom, out.Customization)
	assert.Empty(t, out.Experiences)
	assert.Equal(t, base.Personal, out.Personal)
	assert.Equal(t, base.Skills, out.Skills)
	assert.Len(t, base.Experiences, 2, "input must not be mutated")
}

func TestApplyDoesNotAliasPatchSlices(t *testing.T) {
	skills := []SkillCategory{{ID: "s", Name: "Go", Skills: []string{"channels"}}}
	out := Defaults().Apply(Patch{Skills: skills})
	skills[0].Skills[0] = "mutated"
	assert.Equal(t, "channels", out.Skills[0].Skills[0])
}

func TestMoveExperienceAdjacentSwap(t *testing.T) {
	exps := []Experience{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	down := MoveExperience(exps, 0, 1)
	assert.Equal(t, []string{"b", "a", "c"}, ids(down))

	up := MoveExperience(exps, 2, -1)
	assert.Equal(t, []string{"a", "c", "b"}, ids(up))

	assert.Equal(t, []string{"a", "b", "c"}, ids(MoveExperience(exps, 0, -1)))
	assert.Equal(t, []string{"a", "b", "c"}, ids(MoveExperience(exps, 2, 1)))
	assert.Equal(t, []string{"a", "b", "c"}, ids(exps))
}

func TestAddSkillRejectsCaseSensitiveDuplicates(t *testing.T) {
	cat := SkillCategory{ID: "s", Name: "Languages", Skills: []string{"Go"}}

	_, err := AddSkill(cat, "Go")
	require.ErrorIs(t, err, ErrDuplicateSkill)

	out, err := AddSkill(cat, " go ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "go"}, out.Skills)
	assert.Equal(t, []string{"Go"}, cat.Skills)

	_, err = AddSkill(cat, "   ")
	require.ErrorIs(t, err, ErrEmptySkill)
}

func TestRemoveSkill(t *testing.T) {
	cat := SkillCategory{Skills: []string{"a", "b", "c"}}
	assert.Equal(t, []string{"a", "c"}, RemoveSkill(cat, 1).Skills)
	assert.Equal(t, []string{"a", "b", "c"}, RemoveSkill(cat, 7).Skills)
}

func TestBullets(t *testing.T) {
	got := Bullets("• Shipped v2\n\n- Cut latency by 40%\n  Mentored two engineers  ")
	assert.Equal(t, []string{"Shipped v2", "Cut latency by 40%", "Mentored two engineers"}, got)
	assert.Empty(t, Bullets(""))
}

func TestNewItemIDUnique(t *testing.T) {
	assert.NotEqual(t, NewItemID(), NewItemID())
}

func ids(exps []Experience) []string {
	out := make([]string, len(exps))
	for i, e := range exps {
		out[i] = e.ID
	}
	return out
}
