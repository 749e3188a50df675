package shared

// Combatant is implemented by both players and monsters so the resolution
// engine can treat either side uniformly.
type Combatant interface {
	CombatantID() string
	CombatantType() string
	CombatantName() string
	CurrentHP() int
	MaxHP() int
	AttackPower() int
	Initiative() int
	ElementName() string
	TakeDamage(amount int)
	EffectList() *[]Effect
}

func HasEffect(c Combatant, kind EffectKind) bool {
	for _, e := range *c.EffectList() {
		if e.Type == kind {
			return true
		}
	}
	return false
}

func (p *PlayerRecord) CombatantID() string   { return p.ID }
func (p *PlayerRecord) CombatantType() string { return TypePlayer }
func (p *PlayerRecord) CombatantName() string { return p.Name }
func (p *PlayerRecord) CurrentHP() int        { return p.BattleStats.HP }
func (p *PlayerRecord) ElementName() string   { return p.Element }
func (p *PlayerRecord) EffectList() *[]Effect { return &p.Effects }

func (p *PlayerRecord) MaxHP() int {
	if p.Stats == nil {
		return p.BattleStats.HP
	}
	return p.Stats.HP
}

func (p *PlayerRecord) AttackPower() int {
	if p.Stats == nil {
		return p.BattleStats.AP
	}
	return p.Stats.AP
}

func (p *PlayerRecord) Initiative() int {
	if p.Stats == nil {
		return 0
	}
	return p.Stats.SPD
}

// TakeDamage keeps player HP within [0, max].
func (p *PlayerRecord) TakeDamage(amount int) {
	hp := p.BattleStats.HP - amount
	if hp < 0 {
		hp = 0
	}
	if limit := p.MaxHP(); hp > limit {
		hp = limit
	}
	p.BattleStats.HP = hp
}

func (m *Monster) CombatantID() string   { return m.ID }
func (m *Monster) CombatantType() string { return TypeMonster }
func (m *Monster) CombatantName() string { return m.Name }
func (m *Monster) CurrentHP() int        { return m.BattleStats.HP }
func (m *Monster) MaxHP() int            { return m.Stats.HP }
func (m *Monster) AttackPower() int      { return m.Stats.AP }
func (m *Monster) Initiative() int       { return m.Stats.SPD }
func (m *Monster) ElementName() string   { return m.Element }
func (m *Monster) EffectList() *[]Effect { return &m.Effects }

// TakeDamage lets monster HP go negative; dead monsters stay in the roster.
func (m *Monster) TakeDamage(amount int) {
	m.BattleStats.HP -= amount
}
