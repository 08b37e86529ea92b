package goals

var catalog = []Definition{
	{
		Key:          "basic_attack",
		Name:         "Basic Attack",
		Category:     CategoryAttacking,
		Requirement:  "A straightforward frontal assault against the enemy. Available to all units.",
		TestType:     "Strength",
		ArmyStat:     StatNumbers,
		TargetsEnemy: true,
		RewardText:   "+3 to your battle score as the assault breaks through",
		PenaltyText:  "-2 to your battle score as the attack is repulsed",
	},
	{
		Key:          "cavalry_charge",
		Name:         "Cavalry Charge",
		Category:     CategoryAttacking,
		Requirement:  "A devastating mounted charge aimed at breaking enemy lines.",
		TestType:     "Strength",
		ArmyStat:     StatEquipment,
		TargetsEnemy: true,
		EligibleCategories: []string{
			"Knights", "Shock Cavalry", "Heavy Cavalry", "Light Cavalry", "Lancers", "Mounted Archers",
		},
		RewardText:  "+5 to your battle score as the charge shatters their line",
		PenaltyText: "-3 to your battle score as the charge founders on pikes",
	},
	{
		Key:          "arrow_barrage",
		Name:         "Arrow Barrage",
		Category:     CategoryAttacking,
		Requirement:  "Concentrated ranged volley to thin enemy ranks.",
		TestType:     "Dexterity",
		ArmyStat:     StatEquipment,
		TargetsEnemy: true,
		EligibleCategories: []string{
			"Longbowmen", "Crossbowmen", "Skirmishers", "Mounted Archers", "Ballistae",
		},
		RewardText:  "+4 to your battle score as volleys rake their ranks",
		PenaltyText: "-2 to your battle score as the volley falls short",
	},
	{
		Key:          "flanking_strike",
		Name:         "Flanking Strike",
		Category:     CategoryAttacking,
		Requirement:  "Execute a coordinated attack on enemy flanks and weak points.",
		TestType:     "Dexterity",
		ArmyStat:     StatDiscipline,
		TargetsEnemy: true,
		EligibleCategories: []string{
			"Light Cavalry", "Scouts", "Light Infantry", "Lancers",
		},
		RewardText:  "+5 to your battle score as the flank collapses",
		PenaltyText: "-3 to your battle score as the maneuver is spotted and countered",
	},
	{
		Key:          "overwhelming_assault",
		Name:         "Overwhelming Assault",
		Category:     CategoryAttacking,
		Requirement:  "All-out frontal assault with maximum force deployment.",
		TestType:     "Strength",
		ArmyStat:     StatNumbers,
		TargetsEnemy: true,
		EligibleCategories: []string{
			"Heavy Infantry", "Knights", "Shock Cavalry", "Royal Guard",
		},
		RewardText:  "+6 to your battle score as sheer weight of numbers tells",
		PenaltyText: "-4 to your battle score as the assault bogs down in blood",
	},
	{
		Key:         "defensive_stance",
		Name:        "Defensive Stance",
		Category:    CategoryDefending,
		Requirement: "Adopt a cautious posture to reduce losses and stabilize the line. Available to all units.",
		TestType:    "Constitution",
		ArmyStat:    StatDiscipline,
		RewardText:  "+2 to your battle score as the line holds firm",
		PenaltyText: "-1 to your battle score as gaps open in the formation",
	},
	{
		Key:         "hold_the_line",
		Name:        "Hold the Line",
		Category:    CategoryDefending,
		Requirement: "Fortify your position to blunt enemy assaults.",
		TestType:    "Constitution",
		ArmyStat:    StatMorale,
		EligibleCategories: []string{
			"Swordsmen", "Shield Wall", "Spear Wall", "Pikemen", "Heavy Infantry", "Royal Guard",
		},
		RewardText:  "+3 to your battle score as every assault breaks against your shields",
		PenaltyText: "-2 to your battle score as the line buckles under pressure",
	},
	{
		Key:         "guerrilla_tactics",
		Name:        "Guerrilla Tactics",
		Category:    CategoryDefending,
		Requirement: "Use evasion and mobility to avoid and counter enemy attacks.",
		TestType:    "Dexterity",
		ArmyStat:    StatDiscipline,
		EligibleCategories: []string{
			"Scouts", "Light Cavalry", "Skirmishers", "Mounted Archers",
		},
		RewardText:  "+3 to your battle score as the enemy strikes at shadows",
		PenaltyText: "-2 to your battle score as the skirmishers are run down",
	},
	{
		Key:         "steady_supplies",
		Name:        "Steady Supplies",
		Category:    CategoryLogistics,
		Requirement: "Maintain consistent supply flow to keep your army effective. Available to all units.",
		TestType:    "Intelligence",
		ArmyStat:    StatLogistics,
		RewardText:  "+2 to your battle score from well-fed, well-armed troops",
		PenaltyText: "-1 to your battle score as supply wagons go astray",
	},
	{
		Key:          "intercept_supply",
		Name:         "Intercept Supply Lines",
		Category:     CategoryLogistics,
		Requirement:  "Disrupt enemy logistics to weaken their momentum.",
		TestType:     "Intelligence",
		ArmyStat:     StatLogistics,
		TargetsEnemy: true,
		EligibleCategories: []string{
			"Scouts", "Light Cavalry", "Spies", "Skirmishers",
		},
		RewardText:  "+4 to your battle score as their supply columns burn",
		PenaltyText: "-2 to your battle score as the raiders are intercepted instead",
	},
	{
		Key:         "rally_troops",
		Name:        "Rally Our Troops",
		Category:    CategoryLogistics,
		Requirement: "Boost morale and coordination within your army.",
		TestType:    "Charisma",
		ArmyStat:    StatCommand,
		RewardText:  "+3 to your battle score as banners lift and ranks reform",
		PenaltyText: "-2 to your battle score as the speeches fall flat",
	},
	{
		Key:          "disrupt_comms",
		Name:         "Disrupt Communications",
		Category:     CategoryLogistics,
		Requirement:  "Confuse enemy command and reduce their effectiveness.",
		TestType:     "Intelligence",
		ArmyStat:     StatCommand,
		TargetsEnemy: true,
		EligibleCategories: []string{
			"Spies", "Scouts",
		},
		RewardText:  "+4 to your battle score as enemy orders arrive garbled or not at all",
		PenaltyText: "-3 to your battle score as your agents are captured",
	},
	{
		Key:         "hold_position",
		Name:        "Hold Position",
		Category:    CategoryCustom,
		Requirement: "No viable actions this round. The army holds position and waits.",
		TestType:    "Constitution",
		ArmyStat:    StatDiscipline,
		RewardText:  "+0 as the army holds and awaits orders",
		PenaltyText: "-1 to your battle score as idleness frays nerves",
	},
	{
		Key:          "assassinate_commander",
		Name:         "Assassinate Commander",
		Category:     CategoryUnique,
		Requirement:  "Send elite assassins to eliminate the enemy commander.",
		TestType:     "Dexterity",
		ArmyStat:     StatCommand,
		TargetsEnemy: true,
		EligibleCategories: []string{
			"Assassins",
		},
		RewardText:  "+8 to your battle score as the enemy command tent falls silent",
		PenaltyText: "-5 to your battle score as the strike team is caught and made an example of",
	},
}
